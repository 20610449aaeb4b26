// Package entity defines the domain models for the corporations feature.
package entity

import "time"

// Market classification codes used by the disclosure registry.
const (
	CorpClsKOSPI  = "Y"
	CorpClsKOSDAQ = "K"
	CorpClsKONEX  = "N"
	CorpClsEtc    = "E"
)

// MarketName maps a registry corp_cls code to a display market name.
// Unknown codes map to the empty string.
func MarketName(corpCls string) string {
	switch corpCls {
	case CorpClsKOSPI:
		return "KOSPI"
	case CorpClsKOSDAQ:
		return "KOSDAQ"
	case CorpClsKONEX:
		return "KONEX"
	default:
		return ""
	}
}

// Corporation represents a registered corporation in the disclosure registry.
// CorpCode is the immutable registry identity; the descriptive fields are
// refreshed by synchronization runs.
type Corporation struct {
	ID        uint      `gorm:"primaryKey"`
	CorpCode  string    `gorm:"size:8;not null;uniqueIndex"`
	CorpName  string    `gorm:"size:255;not null;index"`
	StockCode string    `gorm:"size:12;index"`
	CorpCls   string    `gorm:"size:1;not null;default:E"`
	Market    string    `gorm:"size:16"`
	Sector    string    `gorm:"size:64"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Listed reports whether the corporation trades on an exchange.
// Statement syncs cover listed corporations only.
func (c Corporation) Listed() bool {
	return c.StockCode != ""
}
