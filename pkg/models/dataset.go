package models

// DatasetRow is one row of the structure dataset table.
type DatasetRow struct {
	Index int      `json:"index" doc:"Row position in the source table"`
	Cells []string `json:"cells" doc:"Cell values in column order"`
}

// DatasetPage is one page of the table.
type DatasetPage struct {
	Columns  []string     `json:"columns" doc:"Column names"`
	Rows     []DatasetRow `json:"rows" doc:"Rows on this page"`
	Page     int          `json:"page" doc:"1-based page number"`
	PageSize int          `json:"page_size" doc:"Rows per page"`
	Total    int          `json:"total" doc:"Rows matching the filters"`
}

// ListDatasetRequest pages, sorts and filters the table.
type ListDatasetRequest struct {
	Page     int      `query:"page" minimum:"1" default:"1" doc:"1-based page number"`
	PageSize int      `query:"page_size" minimum:"1" maximum:"200" default:"20" doc:"Rows per page"`
	Sort     string   `query:"sort" doc:"Column to sort by"`
	Desc     bool     `query:"desc" doc:"Sort descending"`
	Filter   []string `query:"filter" doc:"column:substring filters, case-insensitive"`
}

// ListDatasetResponse carries one page of the table.
type ListDatasetResponse struct {
	Body DatasetPage
}

// GetDatasetRowRequest selects a single row.
type GetDatasetRowRequest struct {
	Index int `path:"index" minimum:"0" doc:"Row position"`
}

// GetDatasetRowResponseBody is the body of the row response
type GetDatasetRowResponseBody struct {
	Columns []string   `json:"columns" doc:"Column names"`
	Row     DatasetRow `json:"row" doc:"Selected row"`
}

// GetDatasetRowResponse carries the selected row.
type GetDatasetRowResponse struct {
	Body GetDatasetRowResponseBody
}
