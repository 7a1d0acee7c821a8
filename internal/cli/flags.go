package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/spf13/pflag"
)

// dateValue is a pflag.Value for YYYY-MM-DD calendar days.
type dateValue struct {
	t *time.Time
}

var _ pflag.Value = (*dateValue)(nil)

func newDateValue(p *time.Time) *dateValue {
	return &dateValue{t: p}
}

func (d *dateValue) String() string {
	if d.t == nil || d.t.IsZero() {
		return ""
	}
	return d.t.Format(domain.DateLayout)
}

func (d *dateValue) Set(s string) error {
	t, err := domain.ParseDate(s)
	if err != nil {
		return err
	}
	*d.t = t
	return nil
}

func (d *dateValue) Type() string { return "date" }

// enumValue restricts a string flag to a fixed set of values.
type enumValue[T ~string] struct {
	p       *T
	allowed map[T]bool
	name    string
}

func newEnumValue[T ~string](p *T, def T, allowed map[T]bool, name string) *enumValue[T] {
	*p = def
	return &enumValue[T]{p: p, allowed: allowed, name: name}
}

func (e *enumValue[T]) String() string { return string(*e.p) }

func (e *enumValue[T]) Set(s string) error {
	v := T(strings.ToLower(strings.TrimSpace(s)))
	if !e.allowed[v] {
		return fmt.Errorf("invalid %s %q (one of: %s)", e.name, s, strings.Join(e.choices(), ", "))
	}
	*e.p = v
	return nil
}

func (e *enumValue[T]) Type() string { return e.name }

func (e *enumValue[T]) choices() []string {
	out := make([]string, 0, len(e.allowed))
	for v := range e.allowed {
		out = append(out, string(v))
	}
	sort.Strings(out)
	return out
}

// depTypeValue accepts FS/SS/FF/SF in either case or their long spellings.
type depTypeValue struct {
	p *domain.DependencyType
}

func newDepTypeValue(p *domain.DependencyType) *depTypeValue {
	*p = domain.FinishToStart
	return &depTypeValue{p: p}
}

func (d *depTypeValue) String() string { return string(*d.p) }

func (d *depTypeValue) Set(s string) error {
	t, ok := domain.ParseDependencyType(s)
	if !ok {
		return fmt.Errorf("invalid dependency type %q (one of: FS, SS, FF, SF)", s)
	}
	*d.p = t
	return nil
}

func (d *depTypeValue) Type() string { return "type" }

// parseStatus validates a positional status argument.
func parseStatus(s string) (domain.TaskStatus, error) {
	var status domain.TaskStatus
	v := newEnumValue(&status, "", domain.ValidTaskStatuses, "status")
	if err := v.Set(s); err != nil {
		return "", err
	}
	return status, nil
}
