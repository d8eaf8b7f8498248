package models

// ImportRowError records a single failed row in a bulk import.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportSummary reports the outcome of a partial-failure bulk operation.
// Processing continues past failed rows; each failure is collected here.
type ImportSummary struct {
	Processed  int              `json:"processed"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors"`
}
