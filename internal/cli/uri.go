package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"braces.dev/errtrace"
	"github.com/spf13/cobra"

	"github.com/ghettovoice/httpkit/internal/errorutil"
	"github.com/ghettovoice/httpkit/uri"
)

type components struct {
	URI       string `json:"uri"`
	Scheme    string `json:"scheme,omitempty"`
	UserInfo  string `json:"user_info,omitempty"`
	Host      string `json:"host,omitempty"`
	Port      string `json:"port,omitempty"`
	Path      string `json:"path,omitempty"`
	Query     string `json:"query,omitempty"`
	Fragment  string `json:"fragment,omitempty"`
	Reference string `json:"reference"`
}

func newComponents(u uri.URI) components {
	c := components{
		URI:      u.Redacted(),
		Scheme:   u.Scheme(),
		UserInfo: u.UserInfo(),
		Host:     u.Host(),
		Path:     u.Path(),
		Query:    u.Query(),
		Fragment: u.Fragment(),
	}
	if user, _, ok := strings.Cut(c.UserInfo, ":"); ok {
		c.UserInfo = user + ":xxxxx"
	}
	if p, ok := u.Port(); ok {
		c.Port = strconv.FormatUint(uint64(p), 10)
	}
	switch {
	case u.IsAbsolute():
		c.Reference = "absolute"
	case u.IsNetworkPathReference():
		c.Reference = "network-path"
	case u.IsAbsolutePathReference():
		c.Reference = "absolute-path"
	case u.IsSameDocumentReference():
		c.Reference = "same-document"
	default:
		c.Reference = "relative-path"
	}
	return c
}

func newParseCommand(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <uri>",
		Short: "Print components of a URI reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := uri.Parse(args[0])
			if err != nil {
				return errtrace.Wrap(err)
			}
			app.logger.Debug("URI parsed", "uri", u)

			c := newComponents(u)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return errtrace.Wrap(enc.Encode(c))
			}

			for _, row := range [][2]string{
				{"uri", c.URI},
				{"reference", c.Reference},
				{"scheme", c.Scheme},
				{"user_info", c.UserInfo},
				{"host", c.Host},
				{"port", c.Port},
				{"path", c.Path},
				{"query", c.Query},
				{"fragment", c.Fragment},
			} {
				if row[1] != "" {
					fmt.Fprintf(out, "%-10s %s\n", row[0]+":", row[1])
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print components as JSON")
	return cmd
}

func newNormalizeCommand(app *App) *cobra.Command {
	var names []string

	cmd := &cobra.Command{
		Use:   "normalize [--flag name]... <uri>",
		Short: "Normalize a URI",
		Long: `Normalize a URI with the given normalizations, applied in a fixed order:

  capitalize-percent-encoding
  decode-unreserved-characters
  convert-empty-path
  remove-default-host
  remove-default-port
  remove-dot-segments
  remove-duplicate-slashes
  sort-query-parameters

"preserving" selects the first six, which do not change semantics of the URI.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var flags uri.NormalizeFlags
			for _, name := range names {
				f, ok := uri.ParseNormalizeFlag(name)
				if !ok {
					return errtrace.Wrap(errorutil.NewInvalidArgumentError("unknown normalization %q", name))
				}
				flags |= f
			}

			u, err := uri.Parse(args[0])
			if err != nil {
				return errtrace.Wrap(err)
			}
			n, err := u.Normalize(flags)
			if err != nil {
				return errtrace.Wrap(err)
			}
			app.logger.Debug("URI normalized", "uri", u, "flags", flags.String(), "result", n)

			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&names, "flag", "f", []string{"preserving"}, "normalization to apply, repeatable")
	return cmd
}

func parseTwo(args []string) (uri.URI, uri.URI, error) {
	a, err := uri.Parse(args[0])
	if err != nil {
		return uri.URI{}, uri.URI{}, errtrace.Wrap(err)
	}
	b, err := uri.Parse(args[1])
	if err != nil {
		return uri.URI{}, uri.URI{}, errtrace.Wrap(err)
	}
	return a, b, nil
}

func newResolveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <base> <reference>",
		Short: "Resolve a reference against a base URI",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, ref, err := parseTwo(args)
			if err != nil {
				return errtrace.Wrap(err)
			}
			r, err := uri.Resolve(base, ref)
			if err != nil {
				return errtrace.Wrap(err)
			}
			app.logger.Debug("reference resolved", "base", base, "reference", ref, "result", r)

			fmt.Fprintln(cmd.OutOrStdout(), r)
			return nil
		},
	}
}

func newRelativizeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "relativize <base> <target>",
		Short: "Print the shortest reference from a base URI to a target URI",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, target, err := parseTwo(args)
			if err != nil {
				return errtrace.Wrap(err)
			}
			r, err := uri.Relativize(base, target)
			if err != nil {
				return errtrace.Wrap(err)
			}
			app.logger.Debug("target relativized", "base", base, "target", target, "result", r)

			fmt.Fprintln(cmd.OutOrStdout(), r)
			return nil
		},
	}
}
