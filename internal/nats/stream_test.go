package nats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

func TestEventSubject(t *testing.T) {
	assert.Equal(t, "threadsmith.alice.0190.generate", EventSubject("alice", "0190", model.OpGenerate))
	assert.Equal(t, "threadsmith.a_b_c.s_1.refine", EventSubject("a.b c", "s>1", model.OpRefine))
	assert.Equal(t, "threadsmith._.s.generate", EventSubject("", "s", model.OpGenerate))
}

func TestSessionFilter(t *testing.T) {
	assert.Equal(t, "threadsmith.alice.s1.>", SessionFilter("alice", "s1"))
}
