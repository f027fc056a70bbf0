package cli

import (
	"fmt"
	"strings"

	"braces.dev/errtrace"
	"github.com/spf13/cobra"

	"github.com/ghettovoice/httpkit/client"
	"github.com/ghettovoice/httpkit/internal/errorutil"
	"github.com/ghettovoice/httpkit/message"
	"github.com/ghettovoice/httpkit/uri"
)

func newFetchCommand(app *App) *cobra.Command {
	var (
		method  string
		headers []string
		data    string
		include bool
	)

	cmd := &cobra.Command{
		Use:   "fetch [--method name] [--header 'Name: value']... <uri>",
		Short: "Send an HTTP request and print the response",
		Long: `Send an HTTP request and print the response body.

A relative URI is resolved against --base or client.base_uri of the config.
Failed attempts are retried according to client.retry_* settings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := uri.Parse(args[0])
			if err != nil {
				return errtrace.Wrap(err)
			}

			var hdr message.Header
			for _, h := range headers {
				name, val, ok := strings.Cut(h, ":")
				if !ok {
					return errtrace.Wrap(errorutil.NewInvalidArgumentError("header %q is not in the form 'Name: value'", h))
				}
				if hdr, err = hdr.WithAdded(name, val); err != nil {
					return errtrace.Wrap(err)
				}
			}

			req, err := message.NewRequest(method, u, hdr, []byte(data))
			if err != nil {
				return errtrace.Wrap(err)
			}

			c := client.New(app.cfg.ClientOptions(app.logger))
			defer c.CloseIdleConnections()

			res, err := c.Send(cmd.Context(), req)
			if err != nil {
				return errtrace.Wrap(err)
			}

			out := cmd.OutOrStdout()
			if include {
				_, err = res.RenderTo(out)
				return errtrace.Wrap(err)
			}
			_, err = fmt.Fprint(out, string(res.Body()))
			return errtrace.Wrap(err)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&method, "method", "X", "GET", "request method")
	flags.StringArrayVarP(&headers, "header", "H", nil, "request header 'Name: value', repeatable")
	flags.StringVarP(&data, "data", "d", "", "request body")
	flags.BoolVarP(&include, "include", "i", false, "print the status line and the header")
	flags.String("base", "", "base URI of relative request URIs")
	flags.Duration("timeout", 0, "timeout of a single attempt")
	flags.Int("retry-max", 0, "maximum number of retries")
	app.bindFlags(flags, map[string]string{
		"base":      "client.base_uri",
		"timeout":   "client.timeout",
		"retry-max": "client.retry_max",
	})
	return cmd
}
