package exports

type RunView struct {
	Reference       string
	Title           string
	FileName        string
	RowCount        int
	PageCount       int
	SignatureSource string
	CreatedAt       string
}

type Summary struct {
	Runs      int64  `bun:"runs"`
	Pages     int64  `bun:"pages"`
	Uploaded  int64  `bun:"uploaded"`
	LastRunAt string `bun:"last_run_at"`
}

type PageData struct {
	Summary Summary
	Runs    []RunView
	Message string
}
