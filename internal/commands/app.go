package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"evalgo.org/labops/internal/cache"
	"evalgo.org/labops/internal/filter"
	"evalgo.org/labops/internal/inventory"
	"evalgo.org/labops/internal/version"
	"evalgo.org/labops/pkg/labops/client"
)

// newSource builds the inventory source from the loaded configuration. The
// returned func releases the cache.
func newSource() (*inventory.Source, func(), error) {
	c, err := client.New(cfg.API.BaseURL,
		client.WithAPIKey(cfg.API.Key),
		client.WithTimeout(cfg.API.Timeout),
		client.WithInsecureSkipVerify(cfg.API.InsecureSkipVerify),
		client.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		client.WithUserAgent(version.Get().UserAgent()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}

	var store cache.Store = cache.Nop{}
	if cfg.Cache.Enabled && !noCache {
		sqlite, err := cache.Open(cfg.Cache.Path, cfg.Cache.TTL)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Cache.Path).Msg("Cache unavailable, continuing without it")
		} else {
			store = sqlite
		}
	}

	src := inventory.NewSource(c, store)
	src.Refresh = refresh
	return src, func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close cache")
		}
	}, nil
}

// promptChooser asks for a platform choice on a line-oriented reader.
type promptChooser struct {
	in    *bufio.Reader
	out   io.Writer
	asked bool
}

func newPromptChooser(in io.Reader, out io.Writer) *promptChooser {
	return &promptChooser{in: bufio.NewReader(in), out: out}
}

// Choose prints the menu and reads a number. An empty line or end of input
// cancels; anything that is not a number asks again.
func (p *promptChooser) Choose(d *filter.Disambiguation) (int, error) {
	p.asked = true
	fmt.Fprint(p.out, d.Menu())
	for {
		fmt.Fprint(p.out, "\nEnter number to select, or press Enter to cancel: ")
		line, err := p.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("failed to read choice: %w", err)
		}
		eof := err != nil

		line = strings.TrimSpace(line)
		if line == "" {
			fmt.Fprintln(p.out)
			return 0, nil
		}
		n, convErr := strconv.Atoi(line)
		if convErr != nil {
			fmt.Fprintf(p.out, "Error: '%s' is not a valid integer.\n", line)
			if eof {
				return 0, nil
			}
			continue
		}
		if platform := d.Platform(n); platform != "" {
			fmt.Fprintf(p.out, "\nShowing hosts with platform '%s'...\n\n", platform)
		}
		return n, nil
	}
}
