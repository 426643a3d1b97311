package llm

import (
	"context"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/contract"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

type unavailable struct {
	provider Provider
}

// NewUnavailable returns a gateway that fails every call with
// ErrGatewayUnavailable.
func NewUnavailable(provider Provider) Gateway {
	return unavailable{provider: provider}
}

func (u unavailable) Name() string {
	if u.provider == "" {
		return "unavailable"
	}
	return string(u.provider) + "-unavailable"
}

func (unavailable) GenerateText(context.Context, string, *contract.Schema) (string, error) {
	return "", ErrGatewayUnavailable
}

func (unavailable) GenerateImage(context.Context, string) (*model.Image, error) {
	return nil, ErrGatewayUnavailable
}

func (unavailable) SearchGrounded(context.Context, string) (*Grounded, error) {
	return nil, ErrGatewayUnavailable
}

// Available reports whether g can reach a backend.
func Available(g Gateway) bool {
	for {
		switch v := g.(type) {
		case unavailable:
			return false
		case *Instrumented:
			g = v.next
		default:
			return true
		}
	}
}
