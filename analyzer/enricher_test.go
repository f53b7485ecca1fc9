package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataflowEnricherConstructorCall(t *testing.T) {
	src := `package p

func run() {
	w := NewWidget()
	w.Spin()
}
`
	hints := NewDataflowEnricher().Enrich(src)
	assert.Equal(t, []TypeHint{{FnScope: "run", TypeName: "Widget"}}, hints)
}

func TestDataflowEnricherAddressOfComposite(t *testing.T) {
	src := `package p

func (s *Service) Handle() {
	w := &Widget{}
	w.Spin()
	w.Stop()
}
`
	hints := NewDataflowEnricher().Enrich(src)
	assert.Equal(t, []TypeHint{{FnScope: "Service.Handle", TypeName: "Widget"}}, hints)
}

func TestDataflowEnricherNoConstructorNoHint(t *testing.T) {
	src := `package p

func run(w Widget) {
	w.Spin()
}
`
	hints := NewDataflowEnricher().Enrich(src)
	assert.Empty(t, hints)
}

func TestDataflowEnricherBrokenSourceYieldsNoHints(t *testing.T) {
	hints := NewDataflowEnricher().Enrich("package p\nfunc broken(:\n")
	assert.Empty(t, hints)
}
