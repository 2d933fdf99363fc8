package sql

import (
	"embed"
)

// Migrations holds the ledger schema, applied in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/lookup_converted_run.sql
var LookupConvertedRun string

//go:embed queries/register_run.sql
var RegisterRun string

//go:embed queries/finish_run.sql
var FinishRun string

//go:embed queries/fail_run.sql
var FailRun string

//go:embed queries/recent_runs.sql
var RecentRuns string
