package report

import (
	"encoding/xml"
	"os"
	"os/user"
	"runtime"
	"time"

	"github.com/ostafen/extfix/pkg/sysinfo"
)

const OutputVersion = "1.0"

// Header describes the run that produced a report.
type Header struct {
	XMLName xml.Name `xml:"header"`
	Creator Creator  `xml:"creator"`
	Source  Source   `xml:"source"`
}

// Creator describes the program and the environment it ran in.
type Creator struct {
	Package              string  `xml:"package"`
	Version              string  `xml:"version"`
	ExecutionEnvironment ExecEnv `xml:"execution_environment"`
}

type ExecEnv struct {
	OS      string `xml:"os_sysname"`
	Release string `xml:"os_release"`
	Version string `xml:"os_version"`
	Host    string `xml:"host"`
	Arch    string `xml:"arch"`
	User    string `xml:"user"`
	Start   string `xml:"start_time"`
}

// Source lists the audited directories and the options of the run.
type Source struct {
	Roots   []string `xml:"root"`
	Verbose bool     `xml:"verbose"`
	Rename  bool     `xml:"rename"`
}

// File is the report entry of one audited file.
type File struct {
	XMLName   xml.Name `xml:"file"`
	Path      string   `xml:"path,attr"`
	Ext       string   `xml:"ext,attr"`
	Size      int64    `xml:"size,attr"`
	Skipped   bool     `xml:"skipped,attr,omitempty"`
	Matches   []Match  `xml:"match"`
	Header    string   `xml:"header,omitempty"`
	Hint      string   `xml:"hint,omitempty"`
	RenamedTo string   `xml:"renamed_to,omitempty"`
	Error     string   `xml:"error,omitempty"`
}

// Match is one classification outcome of a file.
type Match struct {
	Kind      string `xml:"kind,attr"`
	Format    string `xml:"format,attr,omitempty"`
	Suggested string `xml:"suggested,attr,omitempty"`
}

// GetExecEnv collects information about the current host.
func GetExecEnv() ExecEnv {
	sinfo := sysinfo.Stat()

	host, err := os.Hostname()
	if err != nil {
		host = "unknown_host"
	}

	userName := "unknown"
	if u, err := user.Current(); err == nil {
		userName = u.Username
	}

	return ExecEnv{
		OS:      sinfo.Name,
		Release: sinfo.Release,
		Version: sinfo.Version,
		Host:    host,
		Arch:    runtime.GOARCH,
		User:    userName,
		Start:   time.Now().UTC().Format(time.RFC3339),
	}
}
