package command

import (
	"slices"

	"github.com/shopspring/decimal"

	"player-economy/internal/domain"
)

type ParamKind int

const (
	KindTarget ParamKind = iota
	KindInteger
	KindEnum
)

type Param struct {
	Name     string
	Kind     ParamKind
	Optional bool
	Options  []string
}

// Target is a selector resolved by the host into entities.
func Target(name string) Param {
	return Param{Name: name, Kind: KindTarget}
}

func OptionalTarget(name string) Param {
	return Param{Name: name, Kind: KindTarget, Optional: true}
}

// Integer accepts whole numbers as well as fractional forms; handlers floor
// the value themselves.
func Integer(name string) Param {
	return Param{Name: name, Kind: KindInteger}
}

func Enum(name string, options ...string) Param {
	return Param{Name: name, Kind: KindEnum, Options: options}
}

// accepts reports whether token is a valid literal for the parameter.
func (p Param) accepts(token string) bool {
	switch p.Kind {
	case KindTarget:
		return token != ""
	case KindInteger:
		d, err := decimal.NewFromString(token)
		if err != nil {
			return false
		}
		_, ok := domain.FloorAmount(d)
		return ok
	case KindEnum:
		return slices.Contains(p.Options, token)
	default:
		return false
	}
}

// Args holds the bound values of an invocation.
type Args struct {
	targets map[string][]domain.Entity
	numbers map[string]decimal.Decimal
	strings map[string]string
}

func newArgs() Args {
	return Args{
		targets: make(map[string][]domain.Entity),
		numbers: make(map[string]decimal.Decimal),
		strings: make(map[string]string),
	}
}

// Targets returns the resolved entities of a target parameter and whether
// a selector was given at all.
func (a Args) Targets(name string) ([]domain.Entity, bool) {
	t, ok := a.targets[name]
	return t, ok
}

func (a Args) Number(name string) decimal.Decimal {
	return a.numbers[name]
}

func (a Args) String(name string) string {
	return a.strings[name]
}
