package entities

import (
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Known catalog categories.
const (
	Actors      = "actors"
	Cricketers  = "cricketers"
	Animals     = "animals"
	Professions = "professions"
)

type Entity struct {
	Name       string `json:"name"`
	Surname    string `json:"surname,omitempty"`
	Profession string `json:"profession,omitempty"`
}

// UnmarshalJSON accepts either an object or a plain "First Last" string.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = FromString(s)
		return nil
	}

	type alias Entity
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*e = Entity(a)
	e.Name = strings.TrimSpace(e.Name)
	e.Surname = strings.TrimSpace(e.Surname)
	e.Profession = strings.TrimSpace(e.Profession)
	return nil
}

// FromString splits "Sachin Ramesh Tendulkar" into the first word and the rest.
func FromString(s string) Entity {
	fields := strings.Fields(s)
	switch len(fields) {
	case 0:
		return Entity{}
	case 1:
		return Entity{Name: fields[0]}
	default:
		return Entity{Name: fields[0], Surname: strings.Join(fields[1:], " ")}
	}
}

func (e Entity) FullName() string {
	if e.Surname == "" {
		return e.Name
	}
	return e.Name + " " + e.Surname
}

// FirstName is the first word of Name.
func (e Entity) FirstName() string {
	if i := strings.IndexFunc(e.Name, unicode.IsSpace); i > 0 {
		return e.Name[:i]
	}
	return e.Name
}

// MatchField returns the field whose first letter is compared against the
// requested letter for the given category.
func (e Entity) MatchField(category string) string {
	if category == Professions && e.Profession != "" {
		return e.Profession
	}
	return e.Name
}

// StartsWith reports whether the category's match field begins with letter,
// ignoring case.
func (e Entity) StartsWith(category string, letter rune) bool {
	field := e.MatchField(category)
	r, _ := utf8.DecodeRuneInString(field)
	if r == utf8.RuneError {
		return false
	}
	return unicode.ToUpper(r) == unicode.ToUpper(letter)
}

// Display renders the entity for a trick line. last marks the final entity
// of the sequence, which cricketers show in full so the punchline lands on a
// recognizable name.
func (e Entity) Display(category string, last bool) string {
	switch category {
	case Cricketers:
		if last {
			return e.FullName()
		}
		return e.FirstName()
	case Actors:
		return e.FirstName()
	case Professions:
		if e.Profession != "" {
			return e.Profession
		}
		return e.Name
	default:
		return e.FullName()
	}
}

// Normalize drops entries without a name.
func Normalize(in []Entity) []Entity {
	out := make([]Entity, 0, len(in))
	for _, e := range in {
		if strings.TrimSpace(e.Name) == "" {
			if e.Profession == "" {
				continue
			}
			e.Name = e.Profession
		}
		out = append(out, e)
	}
	return out
}
