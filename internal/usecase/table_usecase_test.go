package usecase

import (
	"context"
	"net/http"
	"testing"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTableCreate_StoresQRCodeForMenuURL(t *testing.T) {
	tables := &TableRepoMock{}
	qr := &qrStub{}
	tables.On("Create", mock.Anything, model.Table{Name: "Terrace 1"}).Return(model.Table{ID: 12, Name: "Terrace 1"}, nil)
	tables.On("UpdateQRCode", mock.Anything, int64(12), "data:image/png;base64,AAAA").Return(nil)

	uc := NewTableUsecase(fakeIDs{}, tables, qr, &auditorSpy{}, "https://shop.example.com/")
	out, err := uc.Create(context.Background(), " Terrace 1 ")
	require.NoError(t, err)

	assert.Equal(t, "tok-12", out.TableToken)
	assert.Equal(t, "https://shop.example.com/menu/tok-12", out.MenuURL)
	assert.Equal(t, "data:image/png;base64,AAAA", out.QRCode)
	assert.Equal(t, []string{"https://shop.example.com/menu/tok-12"}, qr.contents)
	tables.AssertExpectations(t)
}

func TestTableCreate_DefaultName(t *testing.T) {
	tables := &TableRepoMock{}
	tables.On("Create", mock.Anything, model.Table{Name: "New Table"}).Return(model.Table{ID: 1, Name: "New Table"}, nil)
	tables.On("UpdateQRCode", mock.Anything, int64(1), mock.Anything).Return(nil)

	out, err := NewTableUsecase(fakeIDs{}, tables, &qrStub{}, &auditorSpy{}, "http://fe").Create(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "New Table", out.Name)
}

func TestTableGetByToken(t *testing.T) {
	tables := &TableRepoMock{}
	tables.On("FindByID", mock.Anything, int64(12)).Return(model.Table{ID: 12, Name: "T"}, nil)
	tables.On("FindByID", mock.Anything, int64(13)).Return(nil, repo.ErrNotFound)
	uc := NewTableUsecase(fakeIDs{}, tables, &qrStub{}, &auditorSpy{}, "http://fe")

	out, err := uc.GetByToken(context.Background(), "tok-12")
	require.NoError(t, err)
	assert.Equal(t, "T", out.Name)

	_, err = uc.GetByToken(context.Background(), "tok-13")
	requireKind(t, err, http.StatusNotFound, KindNotFound)

	_, err = uc.GetByToken(context.Background(), "12")
	requireKind(t, err, http.StatusBadRequest, KindInvalidToken)
}

func TestTableList(t *testing.T) {
	tables := &TableRepoMock{}
	tables.On("List", mock.Anything).Return([]model.Table{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}, nil)

	outs, err := NewTableUsecase(fakeIDs{}, tables, &qrStub{}, &auditorSpy{}, "http://fe").List(context.Background())
	require.NoError(t, err)
	require.Len(t, outs, 2)
	assert.Equal(t, "tok-2", outs[1].TableToken)
}
