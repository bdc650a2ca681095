package internal

import (
	"fmt"
	"os"
)

const Version = "1.0.0"

// PrintUsage writes the top-level usage text to stderr.
func PrintUsage() {
	fmt.Fprintf(os.Stderr, `resumake - Tailored Job Application Materials

Version: %s

USAGE:
    resumake [global options] <command> [command options]

GLOBAL OPTIONS:
    -config <path>
        Path to config file (default: ~/.resumake/config/resumake.yaml)

    -resume <path>
        Override master resume path

    -v, -version
        Show version information

    -h, -help
        Show this help message

COMMANDS:
    index
        Chunk and embed the master resume into a local vector index

    query
        Retrieve the resume chunks most relevant to a query

    parse
        Parse a job posting (URL or file) into structured JSON

    generate
        Generate a tailored resume, cover letter and company interest

    score
        Score generated materials against a job posting (ATS estimate)

    history
        List previously generated applications

    stats
        Show index and application statistics

EXAMPLES:
    # Index the master resume
    resumake index

    # See what the retriever considers relevant
    resumake query "distributed systems in Go"

    # Parse a posting and generate materials for it
    resumake parse -url https://www.linkedin.com/jobs/4021337 -o job.json
    resumake generate -job job.json

    # Estimate the ATS score of the generated resume
    resumake score -job job.json

    # Review past applications
    resumake history -company acme

For detailed help on each command, use:
    resumake <command> -help
`, Version)
}
