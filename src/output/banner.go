package output

import (
	"fmt"
	"io"
	"time"
)

// BannerInfo holds the identity fields displayed at the top of a run.
type BannerInfo struct {
	Version string
	SHA     string
	Date    string
}

// Banner prints the layerforge identity block.
func Banner(w io.Writer, info BannerInfo, color bool) {
	fmt.Fprintln(w)
	if color {
		fmt.Fprintf(w, "    \033[1;36mlayerforge\033[0m")
	} else {
		fmt.Fprintf(w, "    layerforge")
	}
	if info.Version != "" {
		fmt.Fprintf(w, " %s", info.Version)
	}
	if info.SHA != "" {
		fmt.Fprintf(w, " · %s", info.SHA)
	}
	if info.Date != "" {
		fmt.Fprintf(w, " · %s", info.Date)
	}
	fmt.Fprintln(w)
}

// NewBannerInfo creates a BannerInfo with today's date.
// Version and SHA should be populated from the version package.
func NewBannerInfo(version, sha string) BannerInfo {
	return BannerInfo{
		Version: version,
		SHA:     sha,
		Date:    time.Now().UTC().Format("2006-01-02"),
	}
}
