package testcase

import (
	"github.com/abdul-hamid-achik/httpcase/packages/core/config"
	"github.com/abdul-hamid-achik/httpcase/packages/http"
	"pkt.systems/pslog"
)

// Environment supplies the capabilities a test case sends requests with.
// They are fetched for every request, so an Environment may swap them between
// calls.
type Environment interface {
	Client() http.Sender
	RequestFactory() http.RequestFactory
	URIFactory() http.URIFactory
	StreamFactory() http.StreamFactory
}

// Capabilities is a static Environment.
type Capabilities struct {
	Sender   http.Sender
	Requests http.RequestFactory
	URIs     http.URIFactory
	Streams  http.StreamFactory
}

func (c *Capabilities) Client() http.Sender                 { return c.Sender }
func (c *Capabilities) RequestFactory() http.RequestFactory { return c.Requests }
func (c *Capabilities) URIFactory() http.URIFactory         { return c.URIs }
func (c *Capabilities) StreamFactory() http.StreamFactory   { return c.Streams }

// DefaultEnvironment wires http.Client and http.Factory from cfg. A nil cfg
// means config.DefaultConfig.
func DefaultEnvironment(cfg *config.Config, logger pslog.Base) *Capabilities {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	opts := []http.ClientOption{
		http.WithTimeout(cfg.TimeoutDuration()),
		http.WithFollowRedirects(cfg.GetFollowRedirects()),
		http.WithValidateSSL(cfg.GetValidateSSL()),
		http.WithDefaultHeaders(cfg.Headers),
		http.WithLogger(logger),
	}
	if cfg.MaxRedirects > 0 {
		opts = append(opts, http.WithMaxRedirects(cfg.MaxRedirects))
	}
	if cfg.Proxy != "" {
		opts = append(opts, http.WithProxy(cfg.Proxy))
	}

	factory := http.NewFactory()
	return &Capabilities{
		Sender:   http.NewClient(opts...),
		Requests: factory,
		URIs:     factory,
		Streams:  factory,
	}
}
