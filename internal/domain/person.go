package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// absent is how String renders a field that was never set.
const absent = "null"

// Person is an immutable value. Construct it with NewPersonBuilder. Every
// field may be absent, which is distinct from its zero value.
type Person struct {
	name        string
	lastName    string
	age         int
	hasName     bool
	hasLastName bool
	hasAge      bool
}

// Name returns the name, or "" when it was never set. See HasName.
func (p Person) Name() string {
	return p.name
}

func (p Person) HasName() bool {
	return p.hasName
}

// LastName returns the last name, or "" when it was never set. See HasLastName.
func (p Person) LastName() string {
	return p.lastName
}

func (p Person) HasLastName() bool {
	return p.hasLastName
}

// Age returns the age, or 0 when it was never set. See HasAge.
func (p Person) Age() int {
	return p.age
}

func (p Person) HasAge() bool {
	return p.hasAge
}

func (p Person) Equal(other Person) bool {
	return p == other
}

func (p Person) String() string {
	name, lastName, age := absent, absent, absent
	if p.hasName {
		name = p.name
	}
	if p.hasLastName {
		lastName = p.lastName
	}
	if p.hasAge {
		age = strconv.Itoa(p.age)
	}
	return fmt.Sprintf("Person(name=%s, lastName=%s, age=%s)", name, lastName, age)
}

type personJSON struct {
	Name     *string `json:"name,omitempty"`
	LastName *string `json:"lastName,omitempty"`
	Age      *int    `json:"age,omitempty"`
}

func (p Person) MarshalJSON() ([]byte, error) {
	var v personJSON
	if p.hasName {
		v.Name = &p.name
	}
	if p.hasLastName {
		v.LastName = &p.lastName
	}
	if p.hasAge {
		v.Age = &p.age
	}
	return json.Marshal(v)
}

func (p *Person) UnmarshalJSON(b []byte) error {
	var v personJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Person{}
	if v.Name != nil {
		p.name, p.hasName = *v.Name, true
	}
	if v.LastName != nil {
		p.lastName, p.hasLastName = *v.LastName, true
	}
	if v.Age != nil {
		p.age, p.hasAge = *v.Age, true
	}
	return nil
}

type PersonBuilder struct {
	p Person
}

func NewPersonBuilder() *PersonBuilder {
	return &PersonBuilder{}
}

func (b *PersonBuilder) Name(name string) *PersonBuilder {
	b.p.name, b.p.hasName = name, true
	return b
}

func (b *PersonBuilder) LastName(lastName string) *PersonBuilder {
	b.p.lastName, b.p.hasLastName = lastName, true
	return b
}

func (b *PersonBuilder) Age(age int) *PersonBuilder {
	b.p.age, b.p.hasAge = age, true
	return b
}

// Build returns a copy, so the builder can be reused.
func (b *PersonBuilder) Build() Person {
	return b.p
}
