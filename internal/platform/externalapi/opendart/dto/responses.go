// Package dto defines data transfer objects for OpenDART API responses.
package dto

// CorpListResponse represents the JSON response from the corpCode endpoint.
type CorpListResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	List    []struct {
		CorpCode   string `json:"corp_code"`
		CorpName   string `json:"corp_name"`
		StockCode  string `json:"stock_code"`
		CorpCls    string `json:"corp_cls"`
		IndutyCode string `json:"induty_code"`
		ModifyDate string `json:"modify_date"`
	} `json:"list"`
}

// StatementResponse represents the JSON response from the
// fnlttSinglAcntAll endpoint (all accounts of a single company).
type StatementResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	List    []struct {
		BsnsYear     string `json:"bsns_year"`
		ReprtCode    string `json:"reprt_code"`
		FsDiv        string `json:"fs_div"`
		SjDiv        string `json:"sj_div"`
		AccountID    string `json:"account_id"`
		AccountNm    string `json:"account_nm"`
		ThstrmAmount string `json:"thstrm_amount"`
		Currency     string `json:"currency"`
		Ord          string `json:"ord"`
	} `json:"list"`
}
