package usecase

import (
	"strings"

	"github.com/shopspring/decimal"
)

// 小数点以下を持たない通貨（Stripeの zero-decimal currencies）
var zeroDecimalCurrencies = map[string]struct{}{
	"bif": {}, "clp": {}, "djf": {}, "gnf": {}, "jpy": {}, "kmf": {}, "krw": {}, "mga": {},
	"pyg": {}, "rwf": {}, "ugx": {}, "vnd": {}, "vuv": {}, "xaf": {}, "xof": {}, "xpf": {},
}

// 通貨ごとの最小決済額（minor unit）。無い通貨は defaultMinimumMinor。
var minimumMinorUnits = map[string]int64{
	"gbp": 30,
	"jpy": 50,
}

const defaultMinimumMinor int64 = 50

func minorExponent(currency string) int32 {
	if _, ok := zeroDecimalCurrencies[strings.ToLower(currency)]; ok {
		return 0
	}
	return 2
}

// ToMinorUnits は金額を通貨の最小単位へ変換する（四捨五入、0.5は切り上げ）。
func ToMinorUnits(amount decimal.Decimal, currency string) int64 {
	return amount.Shift(minorExponent(currency)).Round(0).IntPart()
}

func MinimumChargeMinor(currency string) int64 {
	if v, ok := minimumMinorUnits[strings.ToLower(currency)]; ok {
		return v
	}
	return defaultMinimumMinor
}
