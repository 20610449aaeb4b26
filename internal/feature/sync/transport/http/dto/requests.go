// Package dto defines data transfer objects for the sync feature's HTTP transport layer.
package dto

// SyncCorporationsReq is the request body for POST /sync/corporations.
// CorpCls is the registry market class (Y/K/N/E); empty fetches all.
type SyncCorporationsReq struct {
	CorpCls string `json:"corp_cls" binding:"omitempty,oneof=Y K N E"`
}

// SyncStatementsReq is the request body for POST /sync/statements.
type SyncStatementsReq struct {
	CorpCodes []string `json:"corp_codes" binding:"required,min=1,dive,len=8"`
	Years     []int    `json:"years" binding:"required,min=1,dive,gt=0"`
}

// ReportResp summarizes a finished sync run.
type ReportResp struct {
	Succeeded int           `json:"succeeded"`
	Failed    []UnitFailure `json:"failed"`
	Cancelled bool          `json:"cancelled"`
	Aborted   bool          `json:"aborted"`
}

// UnitFailure names one failed (corporation, year) unit and its error kind.
type UnitFailure struct {
	CorpCode string `json:"corp_code,omitempty"`
	Year     int    `json:"year,omitempty"`
	Kind     string `json:"kind"`
}
