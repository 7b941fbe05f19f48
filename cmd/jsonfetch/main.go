// Command jsonfetch performs one JSON exchange against a configured endpoint
// and prints the decoded response.
//
//	jsonfetch --config config.yml people/42
//	jsonfetch -X POST -d '{"name":"Ada"}' people
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/kbukum/jsonkit/codec"
	"github.com/kbukum/jsonkit/config"
	"github.com/kbukum/jsonkit/httpclient"
	"github.com/kbukum/jsonkit/jsonclient"
	"github.com/kbukum/jsonkit/logger"
	"github.com/kbukum/jsonkit/observability"
	"github.com/kbukum/jsonkit/version"
)

const serviceName = "jsonfetch"

// AppConfig is the configuration file layout of jsonfetch.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	HTTP                 httpclient.Config          `yaml:"http" mapstructure:"http"`
	Codec                codec.Config               `yaml:"codec" mapstructure:"codec"`
	Tracing              observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics              observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
}

// ApplyDefaults applies defaults to every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.HTTP.ApplyDefaults()
	c.Codec.ApplyDefaults()
	c.Tracing.ApplyDefaults()
	c.Metrics.ApplyDefaults()
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = c.Name
	}
	if c.Tracing.ServiceVersion == "" {
		c.Tracing.ServiceVersion = version.Get().Version
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = c.Name
	}
	if c.Metrics.ServiceVersion == "" {
		c.Metrics.ServiceVersion = version.Get().Version
	}
}

// Validate validates every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := c.Codec.Validate(); err != nil {
		return err
	}
	if err := c.Tracing.Validate(); err != nil {
		return err
	}
	return c.Metrics.Validate()
}

type options struct {
	configFile string
	envFile    string
	method     string
	data       string
	headers    []string
	query      []string
	indent     bool
	version    bool
}

func main() {
	var opts options
	fs := pflag.NewFlagSet(serviceName, pflag.ExitOnError)
	fs.StringVarP(&opts.configFile, "config", "c", "", "config file (default: searched in standard locations)")
	fs.StringVar(&opts.envFile, "env-file", "", ".env file to load")
	fs.StringVarP(&opts.method, "request", "X", "GET", "HTTP method")
	fs.StringVarP(&opts.data, "data", "d", "", "JSON request body")
	fs.StringArrayVarP(&opts.headers, "header", "H", nil, "extra header as 'Key: Value' (repeatable)")
	fs.StringArrayVarP(&opts.query, "query", "q", nil, "query parameter as key=value (repeatable)")
	fs.BoolVar(&opts.indent, "pretty", true, "indent the output")
	fs.BoolVarP(&opts.version, "version", "v", false, "print the version and exit")
	_ = fs.Parse(os.Args[1:])

	if opts.version {
		fmt.Println(serviceName, version.Get())
		return
	}

	path := ""
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, path); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, path string) error {
	var loadOpts []config.LoaderOption
	if opts.configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loadOpts = append(loadOpts, config.WithEnvFile(opts.envFile))
	}

	var cfg AppConfig
	if err := config.Load(serviceName, &cfg, loadOpts...); err != nil {
		return err
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	logger.SetGlobalLogger(log)

	tp, err := observability.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	if tp != nil {
		defer func() { _ = tp.Shutdown(context.WithoutCancel(ctx)) }()
	}
	mp, err := observability.InitMeter(ctx, cfg.Metrics)
	if err != nil {
		return err
	}
	if mp != nil {
		defer func() { _ = mp.Shutdown(context.WithoutCancel(ctx)) }()
	}

	cd, err := cfg.Codec.Build()
	if err != nil {
		return err
	}

	adapter, err := httpclient.New(cfg.HTTP, httpclient.WithLogger(log))
	if err != nil {
		return err
	}
	defer func() { _ = adapter.Close(ctx) }()

	client := jsonclient.New(adapter, jsonclient.WithDefaultCodec(cd), jsonclient.WithLogger(log.WithComponent("jsonclient")))

	callOpts, err := callOptions(opts)
	if err != nil {
		return err
	}

	in, err := parseData(cfg.Codec, opts.data)
	if err != nil {
		return err
	}

	ctx, span := observability.StartSpan(ctx, "jsonfetch "+strings.ToUpper(opts.method))
	defer span.End()

	result, err := jsonclient.Send[any](ctx, client, strings.ToUpper(opts.method), path, in, callOpts...)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return err
	}

	out := cd
	if opts.indent {
		o := cfg.Codec.Options
		o.Indent = "  "
		if out, err = codec.ByName(cd.Name(), o); err != nil {
			return err
		}
	}
	return out.Encode(os.Stdout, result)
}

// parseData decodes the --data value. Numbers are kept as json.Number so
// that large integers are forwarded unchanged.
func parseData(cfg codec.Config, data string) (any, error) {
	if data == "" {
		return nil, nil
	}
	o := cfg.Options
	o.UseNumber = true
	cd, err := codec.ByName(cfg.Name, o)
	if err != nil {
		return nil, err
	}
	var in any
	if err := cd.Decode(strings.NewReader(data), &in); err != nil {
		return nil, fmt.Errorf("invalid --data: %w", err)
	}
	return in, nil
}

func callOptions(opts options) ([]jsonclient.CallOption, error) {
	var out []jsonclient.CallOption
	for _, h := range opts.headers {
		k, v, ok := strings.Cut(h, ":")
		if !ok {
			return nil, fmt.Errorf("invalid --header %q, want 'Key: Value'", h)
		}
		out = append(out, jsonclient.WithHeader(strings.TrimSpace(k), strings.TrimSpace(v)))
	}
	for _, q := range opts.query {
		k, v, ok := strings.Cut(q, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --query %q, want key=value", q)
		}
		out = append(out, jsonclient.WithQuery(k, v))
	}
	return out, nil
}
