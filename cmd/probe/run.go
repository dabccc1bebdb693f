package probe

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/config"
)

const probeTimeout = 5 * time.Second

// runProbe hits a management endpoint on the locally listening server and
// exits non-zero unless it answers 200. Meant as a container health check,
// so output stays on stdout/stderr instead of the structured log.
func runProbe(path string, verbose bool) {
	cfg := config.DefaultServiceConfigFromEnv()

	client := &http.Client{Timeout: probeTimeout}

	res, err := client.Get(fmt.Sprintf("http://localhost%s%s", cfg.Echo.ListenAddress, path)) //nolint:noctx
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if verbose {
		fmt.Println(string(body))
	}

	if res.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "probe %s returned status %d\n", path, res.StatusCode)
		os.Exit(1)
	}
}
