package sandbox

import (
	"fmt"

	"github.com/cilium/stream"

	"github.com/mikhailv/reactive-sandbox/internal/config"
	"github.com/mikhailv/reactive-sandbox/internal/domain"
	"github.com/mikhailv/reactive-sandbox/internal/reactive"
	"github.com/mikhailv/reactive-sandbox/internal/reactive/streamtest"
)

var (
	Markus = domain.NewPersonBuilder().Name("Markus").LastName("Turica").Age(21).Build()
	Peter  = domain.NewPersonBuilder().Name("Peter").LastName("Minator").Age(33).Build()
)

// Scenario applies one operator to fixed inputs and knows which signals it
// must produce.
type Scenario struct {
	Name        string          `json:"name"`
	Operator    string          `json:"operator"`
	Description string          `json:"description"`
	Inputs      []domain.Person `json:"inputs,omitempty"`

	build  func() stream.Observable[string]
	expect func(v *streamtest.Verifier[string]) *streamtest.Verifier[string]
}

// Source builds a fresh sequence for one run.
func (s Scenario) Source() stream.Observable[string] {
	return s.build()
}

// Verifier returns the scenario expectations bound to src.
func (s Scenario) Verifier(src stream.Observable[string]) *streamtest.Verifier[string] {
	return s.expect(streamtest.Create(src))
}

func name(p domain.Person) string {
	return p.Name()
}

// Catalog returns every scenario. Time-based scenarios are spaced by
// cfg.Scenarios.TimeUnit.
//
//nolint:funlen // flat list of scenarios
func Catalog(cfg *config.Config) []Scenario {
	unit := cfg.Scenarios.TimeUnit
	people := []domain.Person{Markus, Peter}

	return []Scenario{
		{
			Name:        "map",
			Operator:    "Map",
			Description: "maps a single person to its name",
			Inputs:      people[:1],
			build: func() stream.Observable[string] {
				return stream.Map(stream.Just(Markus), name)
			},
			expect: func(v *streamtest.Verifier[string]) *streamtest.Verifier[string] {
				return v.ExpectNext(Markus.Name()).ExpectComplete()
			},
		},
		{
			Name:        "flatMap_mono",
			Operator:    "FlatMap",
			Description: "chains a single person into a dependent single-value sequence",
			Inputs:      people[:1],
			build: func() stream.Observable[string] {
				return stream.FlatMap(stream.Just(Markus), func(p domain.Person) stream.Observable[string] {
					return stream.Just(p.Name())
				})
			},
			expect: func(v *streamtest.Verifier[string]) *streamtest.Verifier[string] {
				return v.ExpectNext(Markus.Name()).ExpectComplete()
			},
		},
		{
			Name:        "flatMap_flux",
			Operator:    "FlatMap",
			Description: "chains every person into a dependent sequence, keeping source order",
			Inputs:      people,
			build: func() stream.Observable[string] {
				return stream.FlatMap(stream.FromSlice(people), func(p domain.Person) stream.Observable[string] {
					return stream.Just(p.Name())
				})
			},
			expect: func(v *streamtest.Verifier[string]) *streamtest.Verifier[string] {
				return v.ExpectNext(Markus.Name(), Peter.Name()).ExpectComplete()
			},
		},
		{
			Name:        "concat",
			Operator:    "Concat",
			Description: "runs a slow source to completion before subscribing to the next one",
			Inputs:      people,
			build: func() stream.Observable[string] {
				return stream.Concat(
					reactive.DelayElements(stream.FromSlice([]string{Markus.Name(), Markus.LastName()}), unit),
					stream.FromSlice([]string{Peter.Name(), Peter.LastName()}),
				)
			},
			expect: func(v *streamtest.Verifier[string]) *streamtest.Verifier[string] {
				return v.ExpectNext(Markus.Name(), Markus.LastName(), Peter.Name(), Peter.LastName()).ExpectComplete()
			},
		},
		{
			Name:        "merge",
			Operator:    "Merge",
			Description: "interleaves first and last names by arrival time",
			Inputs:      people,
			build: func() stream.Observable[string] {
				names := reactive.DelayElements(stream.Map(stream.FromSlice(people), name), 2*unit)
				lastNames := reactive.DelaySubscription(
					reactive.DelayElements(stream.Map(stream.FromSlice(people), domain.Person.LastName), 2*unit),
					unit,
				)
				return reactive.Merge(names, lastNames)
			},
			expect: func(v *streamtest.Verifier[string]) *streamtest.Verifier[string] {
				return v.ExpectNext(Markus.Name(), Markus.LastName(), Peter.Name(), Peter.LastName()).ExpectComplete()
			},
		},
		{
			Name:        "zip",
			Operator:    "Zip",
			Description: "pairs people with positions and stops at the shorter sequence",
			Inputs:      people,
			build: func() stream.Observable[string] {
				return reactive.Zip(stream.FromSlice(people), stream.Range(1, 4), func(p domain.Person, i int) string {
					return fmt.Sprintf("%d:%s", i, p.Name())
				})
			},
			expect: func(v *streamtest.Verifier[string]) *streamtest.Verifier[string] {
				return v.ExpectNext("1:Markus", "2:Peter").ExpectComplete()
			},
		},
		{
			Name:        "combineLatest",
			Operator:    "CombineLatest",
			Description: "combines the latest name with the latest counter on every update",
			Inputs:      people,
			build: func() stream.Observable[string] {
				names := reactive.DelayElements(stream.Map(stream.FromSlice(people), name), 2*unit)
				counter := reactive.DelaySubscription(reactive.DelayElements(stream.Range(1, 3), 2*unit), unit)
				return reactive.CombineLatest(names, counter, func(n string, i int) string {
					return fmt.Sprintf("%s#%d", n, i)
				})
			},
			expect: func(v *streamtest.Verifier[string]) *streamtest.Verifier[string] {
				return v.ExpectNext("Markus#1", "Peter#1", "Peter#2").ExpectComplete()
			},
		},
		{
			Name:        "race",
			Operator:    "Race",
			Description: "mirrors the first source to signal; the delayed one loses",
			Inputs:      people,
			build: func() stream.Observable[string] {
				return reactive.Race(
					reactive.DelaySubscription(stream.Just(Markus.Name()), cfg.Scenarios.RaceDelay),
					stream.Just(Peter.Name()),
				)
			},
			expect: func(v *streamtest.Verifier[string]) *streamtest.Verifier[string] {
				return v.ExpectNext(Peter.Name()).ExpectComplete()
			},
		},
		{
			Name:        "fromCallable",
			Operator:    "FromCallable",
			Description: "builds the person lazily on subscription",
			Inputs:      people[:1],
			build: func() stream.Observable[string] {
				return stream.Map(reactive.FromCallable(func() (domain.Person, error) {
					return domain.NewPersonBuilder().Age(21).LastName("Turica").Name("Markus").Build(), nil
				}), domain.Person.String)
			},
			expect: func(v *streamtest.Verifier[string]) *streamtest.Verifier[string] {
				return v.ExpectNext(Markus.String()).ExpectComplete()
			},
		},
		{
			Name:        "filter",
			Operator:    "Filter",
			Description: "keeps people older than 30",
			Inputs:      people,
			build: func() stream.Observable[string] {
				return stream.Map(stream.Filter(stream.FromSlice(people), func(p domain.Person) bool {
					return p.Age() > 30
				}), name)
			},
			expect: func(v *streamtest.Verifier[string]) *streamtest.Verifier[string] {
				return v.ExpectNext(Peter.Name()).ExpectComplete()
			},
		},
		{
			Name:        "take",
			Operator:    "Take",
			Description: "takes the first person and cancels the rest",
			Inputs:      people,
			build: func() stream.Observable[string] {
				return reactive.Take(stream.Map(stream.FromSlice(people), name), 1)
			},
			expect: func(v *streamtest.Verifier[string]) *streamtest.Verifier[string] {
				return v.ExpectNext(Markus.Name()).ExpectComplete()
			},
		},
		{
			Name:        "retry",
			Operator:    "Retry",
			Description: "resubscribes with backoff until the lookup stops failing",
			Inputs:      people[:1],
			build: func() stream.Observable[string] {
				failures := cfg.Retry.MaxRetries
				attempt := 0
				lookup := reactive.FromCallable(func() (string, error) {
					attempt++
					if attempt <= failures {
						return "", fmt.Errorf("attempt %d: %w", attempt, ErrIntentional)
					}
					return Markus.Name(), nil
				})
				return reactive.Retry(lookup,
					reactive.WithMaxRetries(cfg.Retry.MaxRetries),
					reactive.WithInitialInterval(cfg.Retry.InitialInterval),
				)
			},
			expect: func(v *streamtest.Verifier[string]) *streamtest.Verifier[string] {
				return v.ExpectNext(Markus.Name()).ExpectComplete()
			},
		},
		{
			Name:        "error",
			Operator:    "Concat",
			Description: "emits a name and then fails",
			Inputs:      people[:1],
			build: func() stream.Observable[string] {
				return stream.Concat(stream.Just(Markus.Name()), stream.Error[string](ErrIntentional))
			},
			expect: func(v *streamtest.Verifier[string]) *streamtest.Verifier[string] {
				return v.ExpectNext(Markus.Name()).ExpectErrorIs(ErrIntentional)
			},
		},
	}
}
