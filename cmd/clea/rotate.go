package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/kochabx/clea/app"
	"github.com/kochabx/clea/core/scheduler"
	"github.com/kochabx/clea/core/util/qrcode"
	"github.com/kochabx/clea/errors"
	"github.com/kochabx/clea/log"
	"github.com/kochabx/clea/lsp"
	"github.com/kochabx/clea/metrics"
	httptransport "github.com/kochabx/clea/transport/http"
)

type rotateOptions struct {
	*rootOptions

	every time.Duration
	watch bool
}

func newRotateCmd(root *rootOptions) *cobra.Command {
	o := &rotateOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Emit the venue token and renew it until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.load(); err != nil {
				return err
			}
			defer o.close()
			return o.run(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().DurationVar(&o.every, "every", 0, "force the renewal interval (default derived from the venue)")
	cmd.Flags().BoolVar(&o.watch, "watch", false, "apply log level changes of the config file")
	return cmd
}

func (o *rotateOptions) run(ctx context.Context, stdout io.Writer) error {
	reg := metrics.NewRegistry(true, true)
	m := metrics.NewMetrics("clea", reg)

	enc, err := o.cfg.encoder(lsp.WithMetrics(m))
	if err != nil {
		return err
	}
	loc, err := o.cfg.location(enc)
	if err != nil {
		return err
	}

	if dir := o.cfg.QRCode.Dir; dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Internal("create qr code directory").WithCause(err)
		}
	}

	sink := o.sink(stdout)
	rotator, err := scheduler.NewRotator(loc, sink,
		scheduler.WithLogger(o.logger),
		scheduler.WithEvery(o.every),
	)
	if err != nil {
		return err
	}

	if o.watch {
		if err := o.rootOptions.watch(); err != nil {
			return err
		}
	}

	opts := []app.Option{
		app.WithContext(ctx),
		app.WithLogger(o.logger),
		app.WithJob(func(ctx context.Context) error {
			if err := rotator.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			rotator.Stop()
			return nil
		}),
	}
	if admin := o.cfg.Admin; admin.Enabled {
		admin.Metrics.Gatherer = reg
		admin.Health.Check = func() (any, error) {
			p, ok := rotator.Current()
			if !ok {
				return nil, errors.Internal("no token emitted yet")
			}
			return map[string]any{
				"ltid":                       p.LTId,
				"period_start_time":          p.PeriodStartTime,
				"qrcode_validity_start_time": p.QRCodeValidityStartTime,
			}, nil
		}
		opts = append(opts, app.WithServer(httptransport.NewServer(admin.Addr, nil,
			httptransport.WithMeta(httptransport.Meta{Name: "clea-admin"}),
			httptransport.WithLogger(o.logger),
			httptransport.WithMetricsOptions(admin.Metrics),
			httptransport.WithHealthOptions(admin.Health),
		)))
	}

	return app.New(opts...).Start()
}

// sink prints every token on its own line and writes its QR code when a
// directory is configured.
func (o *rotateOptions) sink(stdout io.Writer) scheduler.Sink {
	var mu sync.Mutex
	dir, size := o.cfg.QRCode.Dir, o.cfg.QRCode.Size

	return func(_ context.Context, e scheduler.Emission) {
		mu.Lock()
		fmt.Fprintln(stdout, e.Token)
		mu.Unlock()

		if dir == "" {
			return
		}
		name := filepath.Join(dir, fmt.Sprintf("%s-%d.png", e.LSP.LTId, e.LSP.QRCodeValidityStartTime))
		if err := qrcode.GenerateToFile(e.Token, size, name); err != nil {
			log.Error().Err(err).Str("file", name).Msg("failed to write qr code")
		}
	}
}
