package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
)

// QRコード画像（data URL）を作る
type QRGenerator interface {
	DataURL(content string) (string, error)
}

type TableUsecase struct {
	ids     IDCipher
	tables  repo.TableRepository
	qr      QRGenerator
	auditor SecurityAuditor
	feURL   string
}

func NewTableUsecase(ids IDCipher, tables repo.TableRepository, qr QRGenerator, auditor SecurityAuditor, feURL string) *TableUsecase {
	return &TableUsecase{
		ids:     ids,
		tables:  tables,
		qr:      qr,
		auditor: auditor,
		feURL:   strings.TrimRight(feURL, "/"),
	}
}

type TableOutput struct {
	TableToken string    `json:"table_id"`
	Name       string    `json:"name"`
	QRCode     string    `json:"qr_code"`
	MenuURL    string    `json:"menu_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// Create はテーブルを作り、暗号化IDを載せたQRコードを保存する。
func (u *TableUsecase) Create(ctx context.Context, name string) (TableOutput, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "New Table"
	}
	if len(name) > 255 {
		return TableOutput{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}

	t, err := u.tables.Create(ctx, model.Table{Name: name})
	if err != nil {
		return TableOutput{}, errDB(err)
	}

	out, err := u.toOutput(t)
	if err != nil {
		return TableOutput{}, err
	}
	qr, err := u.qr.DataURL(out.MenuURL)
	if err != nil {
		return TableOutput{}, NewHTTPError(http.StatusInternalServerError, "qr code error")
	}
	if err := u.tables.UpdateQRCode(ctx, t.ID, qr); err != nil {
		return TableOutput{}, errDB(err)
	}
	out.QRCode = qr
	return out, nil
}

func (u *TableUsecase) GetByToken(ctx context.Context, token string) (TableOutput, error) {
	id, err := decodeToken(ctx, u.ids, u.auditor, token, model.AuditResourceTable)
	if err != nil {
		return TableOutput{}, err
	}
	t, err := u.tables.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return TableOutput{}, NewHTTPError(http.StatusNotFound, "table not found")
		}
		return TableOutput{}, errDB(err)
	}
	return u.toOutput(t)
}

// 管理画面用。トークンは呼ぶたびに変わる。
func (u *TableUsecase) List(ctx context.Context) ([]TableOutput, error) {
	ts, err := u.tables.List(ctx)
	if err != nil {
		return nil, errDB(err)
	}
	outs := make([]TableOutput, 0, len(ts))
	for _, t := range ts {
		o, err := u.toOutput(t)
		if err != nil {
			return nil, err
		}
		outs = append(outs, o)
	}
	return outs, nil
}

func (u *TableUsecase) toOutput(t model.Table) (TableOutput, error) {
	token, err := u.ids.Encode(t.ID)
	if err != nil {
		return TableOutput{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}
	return TableOutput{
		TableToken: token,
		Name:       t.Name,
		QRCode:     t.QRCode,
		MenuURL:    u.feURL + "/menu/" + token,
		CreatedAt:  t.CreatedAt,
	}, nil
}
