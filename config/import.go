package config

import (
	"os"
	"strings"
)

const (
	defaultDataDir       = "data"
	defaultFallbackEmail = "admin@projectorcare.local"
)

// ImportSettings controls the spreadsheet sync scripts. Scripts take no flags;
// everything comes from the environment.
type ImportSettings struct {
	DataDir          string
	FallbackEmail    string
	ReportRecipients []string
	CleanupDryRun    bool
	CleanupRelink    bool
}

func LoadImportSettings() ImportSettings {
	s := ImportSettings{
		DataDir:       strings.TrimSpace(os.Getenv("IMPORT_DATA_DIR")),
		FallbackEmail: strings.TrimSpace(os.Getenv("IMPORT_FALLBACK_EMAIL")),
		CleanupDryRun: envBool("CLEANUP_DRY_RUN"),
		CleanupRelink: envBool("CLEANUP_RELINK"),
	}
	if s.DataDir == "" {
		s.DataDir = defaultDataDir
	}
	if s.FallbackEmail == "" {
		s.FallbackEmail = defaultFallbackEmail
	}
	for _, addr := range strings.Split(os.Getenv("IMPORT_REPORT_RECIPIENTS"), ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			s.ReportRecipients = append(s.ReportRecipients, addr)
		}
	}
	return s
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
