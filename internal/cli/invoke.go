package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/tansive/redditreader/internal/common/apperrors"
	"github.com/tansive/redditreader/internal/readerskill/api"
	"github.com/tansive/redditreader/internal/readerskill/config"
	"github.com/tansive/redditreader/internal/readerskill/server"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

type invokeOptions struct {
	file    string
	token   string
	output  string
	timeout time.Duration // per request, none when zero
}

func newInvokeCmd() *cobra.Command {
	opts := &invokeOptions{}
	cmd := &cobra.Command{
		Use:   "invoke -f <request-file>",
		Short: "Send requests from a file through the skill and print the responses",
		Long: `Runs each request of a JSON or multi-document YAML file through the skill,
in order, without starting a server. Upstream calls are real.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput {
				opts.output = outputJSON
			}
			if opts.output != outputJSON && opts.output != outputYAML {
				return fmt.Errorf("unsupported output format: %s", opts.output)
			}
			cfg := config.Config()
			opts.timeout = cfg.RequestTimeout
			return invoke(cmd.Context(), newSkill(cfg), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&opts.file, "filename", "f", "", "Request file (JSON or YAML)")
	cmd.Flags().StringVar(&opts.token, "token", "", "Catalog access token to place in every request")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputJSON, "Output format: json or yaml")
	cmd.MarkFlagRequired("filename")
	return cmd
}

func invoke(ctx context.Context, skill server.SkillHandler, opts *invokeOptions, out, status io.Writer) error {
	requests, err := ParseRequestFile(opts.file)
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		return fmt.Errorf("no requests in %s", opts.file)
	}

	for i, raw := range requests {
		env, err := DecodeRequest(raw, opts.token)
		if err != nil {
			return fmt.Errorf("request %d: %w", i+1, err)
		}

		rsp, err := handleOne(ctx, skill, env, opts.timeout)
		if err != nil {
			errorLabel.Fprintf(status, "request %d (%s) failed: %s\n", i+1, env.Request.Type, apperrors.ErrorAll(err))
			return ErrAlreadyHandled
		}
		if rsp == nil {
			okLabel.Fprintf(status, "request %d (%s): no response\n", i+1, env.Request.Type)
			continue
		}
		okLabel.Fprintf(status, "request %d (%s): ok\n", i+1, env.Request.Type)
		if err := printEnvelope(out, rsp, opts.output); err != nil {
			return err
		}
	}
	return nil
}

// handleOne runs a single request under its own deadline, the same bound
// the server applies to each webhook call.
func handleOne(ctx context.Context, skill server.SkillHandler, env *api.RequestEnvelope, timeout time.Duration) (*api.ResponseEnvelope, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return skill.Handle(ctx, env)
}

func printEnvelope(w io.Writer, rsp *api.ResponseEnvelope, format string) error {
	if format == outputJSON {
		return printJSON(w, rsp)
	}
	b, err := yaml.Marshal(rsp)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "---\n%s", b)
	return err
}
