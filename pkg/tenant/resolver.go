package tenant

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	// MaxIdentifierLength caps slug and subdomain signals. DNS labels are
	// limited to 63 octets, which also bounds abuse via oversized values.
	MaxIdentifierLength = 63

	// DefaultHeader is the trusted header used by internal server-to-server
	// callers to address a tenant directly.
	DefaultHeader = "X-Tenant-ID"
)

// slugPattern matches URL- and DNS-safe identifiers: alphanumeric start,
// hyphens allowed inside.
var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// SignalKind discriminates how an addressing signal should be looked up in
// the directory. Slug and domain are separate unique indexes.
type SignalKind uint8

const (
	SignalNone SignalKind = iota
	SignalSlug
	SignalDomain
	SignalID
)

// Signal is a tenant addressing signal extracted from an inbound request.
// The zero value means the request carried no tenant addressing at all.
type Signal struct {
	Kind  SignalKind
	Value string
}

// Empty reports whether the request carried no tenant addressing.
func (s Signal) Empty() bool {
	return s.Kind == SignalNone || s.Value == ""
}

// Resolver extracts a tenant addressing signal from an HTTP request.
// Extraction never touches the directory; it is a pure function of the
// request. Returns a zero Signal when the request carries no signal and an
// error wrapping ErrInvalidIdentifier when the signal is malformed.
type Resolver func(r *http.Request) (Signal, error)

func validIdentifier(id string) bool {
	return id != "" && len(id) <= MaxIdentifierLength && slugPattern.MatchString(id)
}

// NewHeaderResolver extracts the tenant signal from a trusted HTTP header.
// The header value may be a tenant UUID or a slug; UUIDs are classified as
// SignalID so the directory lookup hits the primary key.
// Defaults to DefaultHeader if headerName is empty.
func NewHeaderResolver(headerName string) Resolver {
	if headerName == "" {
		headerName = DefaultHeader
	}

	return func(req *http.Request) (Signal, error) {
		value := strings.TrimSpace(req.Header.Get(headerName))
		if value == "" {
			return Signal{}, nil
		}

		if _, err := uuid.Parse(value); err == nil {
			return Signal{Kind: SignalID, Value: value}, nil
		}
		if !validIdentifier(value) {
			return Signal{}, fmt.Errorf("%w: header value %q", ErrInvalidIdentifier, value)
		}
		return Signal{Kind: SignalSlug, Value: value}, nil
	}
}

// NewPathResolver extracts a tenant slug from the URL path segment at the
// given 1-based position. Position 2 extracts from /orgs/{slug}/dashboard.
func NewPathResolver(position int) Resolver {
	return func(req *http.Request) (Signal, error) {
		if position < 1 {
			return Signal{}, fmt.Errorf("invalid path position: %d", position)
		}

		path := strings.TrimPrefix(req.URL.Path, "/")
		path = strings.TrimSuffix(path, "/")
		if path == "" {
			return Signal{}, nil
		}

		parts := strings.Split(path, "/")
		if position > len(parts) || parts[position-1] == "" {
			return Signal{}, nil
		}

		value := strings.TrimSpace(parts[position-1])
		if !validIdentifier(value) {
			return Signal{}, fmt.Errorf("%w: path segment %q", ErrInvalidIdentifier, value)
		}
		return Signal{Kind: SignalSlug, Value: value}, nil
	}
}

// normalizeSuffix lowercases the platform suffix and strips a leading dot
// so "example.com" and ".example.com" configs behave identically.
func normalizeSuffix(platformSuffix string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(platformSuffix)), ".")
}

// underSuffix reports whether host is the platform base domain itself or
// sits under it. The match is anchored on a label boundary: "myexample.com"
// is not under "example.com".
func underSuffix(host, suffix string) bool {
	return suffix != "" && (host == suffix || strings.HasSuffix(host, "."+suffix))
}

// NewDomainResolver treats any Host outside the platform's own suffix as a
// tenant custom domain (e.g. "donate.acme.org"). Hosts under the platform
// suffix are left to the subdomain resolver.
func NewDomainResolver(platformSuffix string) Resolver {
	suffix := normalizeSuffix(platformSuffix)
	return func(req *http.Request) (Signal, error) {
		host := strings.ToLower(stripPort(req.Host))
		if host == "" {
			return Signal{}, nil
		}
		if underSuffix(host, suffix) {
			return Signal{}, nil
		}
		// A bare IP or single-label host is never a custom domain.
		if !strings.Contains(host, ".") {
			return Signal{}, nil
		}
		return Signal{Kind: SignalDomain, Value: host}, nil
	}
}

// NewSubdomainResolver extracts a tenant slug from the first subdomain label
// of hosts under the platform suffix (e.g. "acme" from "acme.example.com").
// Returns a zero Signal for the base domain and the www prefix alone.
func NewSubdomainResolver(platformSuffix string) Resolver {
	suffix := normalizeSuffix(platformSuffix)
	return func(req *http.Request) (Signal, error) {
		host := strings.ToLower(stripPort(req.Host))
		if host == "" {
			return Signal{}, nil
		}

		var labels []string
		if suffix != "" {
			// Only hosts strictly under the suffix carry a slug; the base
			// domain itself and unrelated hosts yield nothing.
			if !strings.HasSuffix(host, "."+suffix) {
				return Signal{}, nil
			}
			labels = strings.Split(strings.TrimSuffix(host, "."+suffix), ".")
		} else {
			parts := strings.Split(host, ".")
			// subdomain.domain.tld needs at least three labels.
			if len(parts) < 3 {
				return Signal{}, nil
			}
			labels = parts[:len(parts)-2]
		}
		if len(labels) == 0 || labels[0] == "" {
			return Signal{}, nil
		}

		sub := labels[0]
		if sub == "www" {
			if len(labels) < 2 || labels[1] == "" {
				return Signal{}, nil
			}
			sub = labels[1]
		}

		if !validIdentifier(sub) {
			return Signal{}, fmt.Errorf("%w: subdomain %q", ErrInvalidIdentifier, sub)
		}
		return Signal{Kind: SignalSlug, Value: sub}, nil
	}
}

// NewCompositeResolver tries resolvers in order and returns the first
// non-empty signal. The order defines the resolution precedence.
func NewCompositeResolver(resolvers ...Resolver) Resolver {
	return func(r *http.Request) (Signal, error) {
		var errs []error

		for _, resolve := range resolvers {
			sig, err := resolve(r)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if !sig.Empty() {
				return sig, nil
			}
		}

		if len(errs) > 0 {
			return Signal{}, fmt.Errorf("composite resolver: %w", errors.Join(errs...))
		}
		return Signal{}, nil
	}
}

// NewDefaultResolver applies the platform's resolution precedence:
// trusted header, then custom domain, then subdomain slug.
func NewDefaultResolver(platformSuffix string) Resolver {
	return NewCompositeResolver(
		NewHeaderResolver(""),
		NewDomainResolver(platformSuffix),
		NewSubdomainResolver(platformSuffix),
	)
}

// Lookup maps an addressing signal to a tenant record via the directory.
// It is a pure read: idempotent and safe to call multiple times per request.
// An empty signal and an unknown identifier both yield ErrTenantNotFound;
// tenant status is not interpreted here.
func Lookup(ctx context.Context, dir Directory, sig Signal) (*Tenant, error) {
	switch sig.Kind {
	case SignalSlug:
		return dir.BySlug(ctx, sig.Value)
	case SignalDomain:
		return dir.ByDomain(ctx, sig.Value)
	case SignalID:
		id, err := uuid.Parse(sig.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, sig.Value)
		}
		return dir.ByID(ctx, id)
	default:
		return nil, ErrTenantNotFound
	}
}

func stripPort(host string) string {
	// net.SplitHostPort handles bracketed IPv6 literals; a host without a
	// port makes it error, in which case the input is already bare.
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
