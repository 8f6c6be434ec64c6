package trick

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mnemo/pkg/entities"
	"mnemo/pkg/schema"
	"mnemo/pkg/wordbank"
)

type fakeCatalog struct {
	entities  map[string][]entities.Entity
	lines     map[string]map[string][]string
	templates map[string][]string
	wordbank  *wordbank.Wordbank
}

func (f *fakeCatalog) Entities(category string) []entities.Entity { return f.entities[category] }

func (f *fakeCatalog) Lines(category string) map[string][]string { return f.lines[category] }

func (f *fakeCatalog) TemplatesFor(names ...string) []string {
	for _, n := range names {
		if t := f.templates[n]; len(t) > 0 {
			return t
		}
	}
	return nil
}

func (f *fakeCatalog) Wordbank() *wordbank.Wordbank { return f.wordbank }

type fakeResolver struct {
	queries []string
}

func (r *fakeResolver) Resolve(_ context.Context, query string) schema.Abbreviation {
	r.queries = append(r.queries, query)
	return schema.Abbreviation{Abbr: query, FullForm: "National Aeronautics and Space Administration", Description: "US space agency."}
}

func newCatalog() *fakeCatalog {
	wb := wordbank.New()
	wb.Add(wordbank.Noun, "A", "apple")
	wb.Add(wordbank.Verb, "B", "bark")
	wb.Add(wordbank.Adjective, "C", "cold")
	wb.Add(wordbank.Adverb, "D", "daily")

	return &fakeCatalog{
		entities: map[string][]entities.Entity{
			entities.Actors: {
				{Name: "Aamir", Surname: "Khan"},
				{Name: "Bobby", Surname: "Deol"},
				{Name: "Chunky", Surname: "Pandey"},
				{Name: "Dharmendra"},
				{Name: "Emraan", Surname: "Hashmi"},
			},
			entities.Cricketers: {
				{Name: "Sachin", Surname: "Tendulkar"},
				{Name: "Mahendra Singh", Surname: "Dhoni"},
			},
			entities.Professions: {
				{Name: "Ravi", Profession: "Doctor"},
			},
		},
		lines: map[string]map[string][]string{
			entities.Actors: {
				"bobby deol": {"Bobby is back!"},
			},
			entities.Cricketers: {
				"mahendra singh dhoni": {"Helicopter shot!"},
			},
			entities.Professions: {
				"doctr": {"An apple a day keeps me away."},
			},
		},
		templates: map[string][]string{},
		wordbank:  wb,
	}
}

func newGenerator(c *fakeCatalog, r Resolver) *Generator {
	return New(c, nil, r, Config{Rand: rand.New(rand.NewPCG(7, 7))})
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw   string
		topic string
		want  []string
	}{
		{"A,B,C", "", []string{"A", "B", "C"}},
		{"abc", "", []string{"A", "B", "C"}},
		{"Apple, Banana, Cherry", "", []string{"A", "B", "C"}},
		{"Rainbow, v, i, b", "Rainbow", []string{"V", "I", "B"}},
		{"Planets: mercury venus, earth", "Planets", []string{"M", "V", "E"}},
		{"red orange yellow", "", []string{"R", "O", "Y"}},
		{"supercalifragilistic", "", []string{"S"}},
		{"NASA", "", []string{"N", "A", "S", "A"}},
		{"  ,  , ", "", []string{}},
		{"", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			in := Parse(tt.raw)
			assert.Equal(t, tt.topic, in.Topic)
			if len(tt.want) == 0 {
				assert.Empty(t, in.Letters)
				return
			}
			assert.Equal(t, tt.want, in.Letters)
		})
	}
}

func TestGenerate_LetterMode(t *testing.T) {
	g := newGenerator(newCatalog(), nil)

	got := g.Generate(context.Background(), "actors", "A,B", Options{})
	assert.Equal(t, "<b>Aamir</b>, <b>Bobby</b>: Bobby is back!", got)
}

func TestGenerate_CricketersShowFullLastName(t *testing.T) {
	g := newGenerator(newCatalog(), nil)

	got := g.Generate(context.Background(), "Cricketers", "SM", Options{})
	assert.Equal(t, "<b>Sachin</b>, <b>Mahendra Singh Dhoni</b>: Helicopter shot!", got)
}

func TestGenerate_FuzzyLineMatch(t *testing.T) {
	g := newGenerator(newCatalog(), nil)

	got := g.Generate(context.Background(), "professions", "D", Options{})
	assert.Equal(t, "<b>Doctor</b>: An apple a day keeps me away.", got)
}

func TestGenerate_GracefulDegradation(t *testing.T) {
	g := newGenerator(newCatalog(), nil)

	for _, typ := range []string{entities.Actors, entities.Animals} {
		got := g.Generate(context.Background(), typ, "Z,Q,X", Options{})
		assert.Contains(t, defaultLines, got)
	}

	got := g.Generate(context.Background(), "actors", "Z,A", Options{})
	assert.True(t, strings.HasPrefix(got, "<b>Aamir</b>: "), got)
	assert.Contains(t, defaultLines, strings.TrimPrefix(got, "<b>Aamir</b>: "))
}

func TestGenerate_TopicMode(t *testing.T) {
	g := newGenerator(newCatalog(), nil)

	got := g.Generate(context.Background(), "actors", "Heroes, a, b", Options{})
	assert.Equal(t, "<b>Heroes</b>, <b>Aamir</b>, <b>Bobby</b>: Bobby is back!", got)
}

func TestGenerate_SentenceMode(t *testing.T) {
	c := newCatalog()
	c.templates["group"] = []string{"{name1} leads {names} to the {noun}."}
	g := newGenerator(c, nil)

	got := g.Generate(context.Background(), "actors", "ABCDE", Options{})
	assert.Equal(t, "<b>Aamir</b> leads <b>Aamir</b>, <b>Bobby</b>, <b>Chunky</b>, <b>Dharmendra</b>, <b>Emraan</b> to the apple.", got)

	short := g.Generate(context.Background(), "actors", "AB", Options{})
	assert.Equal(t, "<b>Aamir</b>, <b>Bobby</b>: Bobby is back!", short)
}

func TestGenerate_SimpleSentenceRules(t *testing.T) {
	g := newGenerator(newCatalog(), nil)

	assert.Equal(t, "The cold apple barks daily.", g.Generate(context.Background(), SimpleSentence, "ABCD", Options{}))
	assert.Equal(t, "Woh cold apple bark karta hai daily", g.Generate(context.Background(), SimpleSentence, "ABCD", Options{Lang: "hinglish"}))
	assert.Equal(t, "The apple.", g.Generate(context.Background(), SimpleSentence, "A", Options{}))
	assert.Equal(t, "The z q xs.", g.Generate(context.Background(), SimpleSentence, "Q,X,Z", Options{}))
}

func TestGenerate_SimpleSentenceTemplates(t *testing.T) {
	c := newCatalog()
	c.templates["simple_sentence"] = []string{"{noun} for all.", "nothing here."}
	g := newGenerator(c, nil)

	for range 5 {
		assert.Equal(t, "apple for all.", g.Generate(context.Background(), SimpleSentence, "A", Options{}))
	}
}

func TestGenerate_Abbreviations(t *testing.T) {
	r := &fakeResolver{}
	g := newGenerator(newCatalog(), r)

	got := g.Generate(context.Background(), Abbreviations, "nasa", Options{})
	assert.Equal(t, "<b>NASA</b>: National Aeronautics and Space Administration - US space agency.", got)
	assert.Equal(t, []string{"NASA"}, r.queries)

	got = g.Generate(context.Background(), Abbreviations, "Not A Space Agency", Options{})
	require.Len(t, r.queries, 2)
	assert.Equal(t, "NASA", r.queries[1])
	assert.True(t, strings.HasPrefix(got, "<b>NASA</b>: "))
}

func TestGenerate_InvalidRequests(t *testing.T) {
	g := newGenerator(newCatalog(), nil)

	assert.Equal(t, InvalidType, g.Generate(context.Background(), "planets", "ABC", Options{}))
	assert.Equal(t, InvalidInput, g.Generate(context.Background(), "actors", "", Options{}))
	assert.Equal(t, InvalidInput, g.Generate(context.Background(), "actors", " , ;", Options{}))
}
