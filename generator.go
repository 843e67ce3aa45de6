package qsynth

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Sample is one synthetic book record. Field names and JSON keys are the wire contract.
type Sample struct {
	ID            string `json:"id" msgpack:"id"`
	Title         string `json:"title" msgpack:"title"`
	ISBN          string `json:"isbn" msgpack:"isbn"`
	PublishedYear int    `json:"publishedYear" msgpack:"publishedYear"`
	Genre         string `json:"genre" msgpack:"genre"`
	Description   string `json:"description" msgpack:"description"`
	State         string `json:"state" msgpack:"state"`
	CreatorID     string `json:"creatorId" msgpack:"creatorId"`
	UpdaterID     string `json:"updaterId" msgpack:"updaterId"`
}

// Person is one synthetic demographic record.
type Person struct {
	ID     string `json:"id" msgpack:"id"`
	Age    int    `json:"age" msgpack:"age"`
	Income int    `json:"income" msgpack:"income"`
	Region string `json:"region" msgpack:"region"`
}

var isbnPrefix = [3]int{9, 7, 8}

/*
Generator builds records feature by feature. Each feature gets its own circuit and its
own register; a feature that depends on another is only built once the other has been
measured, because the Coupling needs the measured value to lay its gates.
*/
type Generator struct {
	catalog *Catalog
	config  *Config
	exec    *Executor

	genres       *Categorical
	states       *Categorical
	regions      *Categorical
	users        *Categorical
	digits       *Categorical
	titles       [genreCount]*Categorical
	descriptions [genreCount]*Categorical
	uniform      *Circuit
}

func NewGenerator(catalog *Catalog, config *Config) (*Generator, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if len(config.StateWeights) != len(catalog.States) {
		return nil, configError("%d state weights for %d states", len(config.StateWeights), len(catalog.States))
	}
	if len(config.RegionWeights) != len(catalog.Regions) {
		return nil, configError("%d region weights for %d regions", len(config.RegionWeights), len(catalog.Regions))
	}

	gen := &Generator{
		catalog: catalog,
		config:  config,
		exec:    NewExecutor(),
	}

	var err error

	if gen.genres, err = NewCategorical("genre", config.GenreWeights); err != nil {
		return nil, err
	}
	if gen.states, err = NewCategorical("state", config.StateWeights); err != nil {
		return nil, err
	}
	if gen.regions, err = NewCategorical("region", config.RegionWeights); err != nil {
		return nil, err
	}
	if gen.users, err = NewCategorical("user", UniformWeights(len(catalog.Users))); err != nil {
		return nil, err
	}
	if gen.digits, err = NewCategorical("digit", UniformWeights(10)); err != nil {
		return nil, err
	}

	for _, g := range Genres() {
		if gen.titles[g], err = NewCategorical("title/"+g.String(), UniformWeights(len(catalog.Titles[g]))); err != nil {
			return nil, err
		}
		if gen.descriptions[g], err = NewCategorical("description/"+g.String(), UniformWeights(len(catalog.Descriptions[g]))); err != nil {
			return nil, err
		}
	}

	gen.uniform = NewCircuit("uniform", config.UniformBits)
	for q := 0; q < config.UniformBits; q++ {
		gen.uniform.Add(Hadamard(q))
	}

	return gen, nil
}

func (gen *Generator) Catalog() *Catalog {
	return gen.catalog
}

// Sample generates one book record from src.
func (gen *Generator) Sample(src RandomSource) (Sample, error) {
	id, err := gen.id(src)
	if err != nil {
		return Sample{}, err
	}

	g, err := gen.Genre(src)
	if err != nil {
		return Sample{}, err
	}

	title, err := gen.pick(src, g, gen.titles[g], gen.catalog.Titles[g], gen.config.TitleCoupling, "title")
	if err != nil {
		return Sample{}, err
	}

	description, err := gen.pick(src, g, gen.descriptions[g], gen.catalog.Descriptions[g], gen.config.DescriptionCoupling, "description")
	if err != nil {
		return Sample{}, err
	}

	year, err := gen.Year(src)
	if err != nil {
		return Sample{}, err
	}

	isbn, err := gen.ISBN(src)
	if err != nil {
		return Sample{}, err
	}

	state, err := gen.states.Draw(gen.exec, src)
	if err != nil {
		return Sample{}, err
	}

	creator, updater, err := gen.Editors(src)
	if err != nil {
		return Sample{}, err
	}

	return Sample{
		ID:            id,
		Title:         title,
		ISBN:          isbn,
		PublishedYear: year,
		Genre:         g.String(),
		Description:   description,
		State:         gen.catalog.States[min(state, len(gen.catalog.States)-1)],
		CreatorID:     creator,
		UpdaterID:     updater,
	}, nil
}

// Person generates one demographic record from src.
func (gen *Generator) Person(src RandomSource) (Person, error) {
	id, err := gen.id(src)
	if err != nil {
		return Person{}, err
	}

	age, err := gen.Age(src)
	if err != nil {
		return Person{}, err
	}

	income, err := gen.Income(src, age)
	if err != nil {
		return Person{}, err
	}

	region, err := gen.regions.Draw(gen.exec, src)
	if err != nil {
		return Person{}, err
	}

	return Person{
		ID:     id,
		Age:    age,
		Income: income,
		Region: gen.catalog.Regions[min(region, len(gen.catalog.Regions)-1)],
	}, nil
}

func (gen *Generator) Genre(src RandomSource) (Genre, error) {
	index, err := gen.genres.Draw(gen.exec, src)
	if err != nil {
		return 0, err
	}

	g := Genre(index)
	if !g.Valid() {
		return 0, invariantError("genre index %d sampled outside the enum", index)
	}

	return g, nil
}

// Year is skewed towards recent publication: years-before-latest follow the exponential shape.
func (gen *Generator) Year(src RandomSource) (int, error) {
	u, err := gen.draw(src)
	if err != nil {
		return 0, err
	}

	span := gen.catalog.Year.Hi - gen.catalog.Year.Lo
	return gen.catalog.Year.Hi - Exponential(u, gen.config.YearScale, 0, 0, span), nil
}

func (gen *Generator) Age(src RandomSource) (int, error) {
	u, err := gen.draw(src)
	if err != nil {
		return 0, err
	}

	return BellShaped(u, gen.config.AgeMean, gen.config.AgeStd, gen.catalog.Age.Lo, gen.catalog.Age.Hi), nil
}

/*
Income is sampled on IncomeBits qubits held at an even superposition, with one encoding
qubit angle-encoding age and coupled to every income qubit. Older ages raise both the
chance the encoding qubit fires and the size of the rotation it triggers.
*/
func (gen *Generator) Income(src RandomSource, age int) (int, error) {
	width := gen.config.IncomeBits
	c := NewCircuit(fmt.Sprintf("income/age=%d", age), width+1)

	targets := make([]int, width)
	for j := range targets {
		targets[j] = j + 1
		c.Add(RY(targets[j], math.Pi/2))
	}

	coupling := Coupling{
		SourceLo: float64(gen.catalog.Age.Lo),
		SourceHi: float64(gen.catalog.Age.Hi),
		Strength: gen.config.IncomeCoupling,
		Encoding: EncodeAngle,
		Topology: Soft,
	}
	if err := coupling.Encode(c, float64(age), []int{0}, targets); err != nil {
		return 0, err
	}

	result, _, err := gen.exec.Sample(c, NewSampler(src), targets...)
	if err != nil {
		return 0, err
	}

	return ScaledRange(result.Int(), width, gen.catalog.Income.Lo, gen.catalog.Income.Hi), nil
}

// ISBN draws nine digits after the 978 prefix and appends the check digit.
func (gen *Generator) ISBN(src RandomSource) (string, error) {
	var digits [12]int
	copy(digits[:], isbnPrefix[:])

	for i := len(isbnPrefix); i < len(digits); i++ {
		d, err := gen.digits.Draw(gen.exec, src)
		if err != nil {
			return "", err
		}
		digits[i] = LinearRange(d, 0, 9)
	}

	return FormatISBN13(digits), nil
}

/*
Editors samples creator and updater from one circuit. The creator register is loaded
uniformly over the user pool and measured mid-circuit; the updater register is then
jittered and parity-linked to the collapsed creator bits, so the updater usually repeats
the creator and occasionally lands on a neighbouring id.
*/
func (gen *Generator) Editors(src RandomSource) (string, string, error) {
	k := gen.users.Qubits()
	c := NewCircuit("editors", 2*k)

	creator := make([]int, k)
	updater := make([]int, k)
	for j := 0; j < k; j++ {
		creator[j] = j
		updater[j] = k + j
	}

	gen.users.Prepare(c, creator)
	c.MeasureMid("creator", creator...)

	for _, q := range updater {
		c.Add(RY(q, gen.config.UpdaterNoise))
	}

	coupling := Coupling{
		SourceLo: 0,
		SourceHi: float64(len(gen.catalog.Users) - 1),
		Strength: 0,
		Encoding: EncodeQuantum,
		Topology: Hard,
	}
	if err := coupling.Encode(c, 0, creator, updater); err != nil {
		return "", "", err
	}

	result, exec, err := gen.exec.Sample(c, NewSampler(src), updater...)
	if err != nil {
		return "", "", err
	}

	users := gen.catalog.Users
	last := len(users) - 1

	return users[LinearRange(exec.Outcomes["creator"].Int(), 0, last)],
		users[LinearRange(result.Int(), 0, last)], nil
}

/*
pick samples an entry of labels for genre g. The base distribution is uniform over the
labels; the genre is bit-loaded onto encoding qubits and coupled onto the label qubits.
*/
func (gen *Generator) pick(
	src RandomSource, g Genre, base *Categorical, labels []string, strength float64, feature string,
) (string, error) {
	enc := QubitsFor(int(genreCount))
	width := base.Qubits()
	c := NewCircuit(feature+"/"+g.String(), enc+width)

	encoding := make([]int, enc)
	for i := range encoding {
		encoding[i] = i
	}

	targets := make([]int, width)
	for j := range targets {
		targets[j] = enc + j
	}

	base.Prepare(c, targets)

	coupling := Coupling{
		SourceLo: 0,
		SourceHi: float64(genreCount - 1),
		Strength: strength,
		Encoding: EncodeBits,
		Topology: SoftHard,
	}
	if err := coupling.Encode(c, float64(g), encoding, targets); err != nil {
		return "", err
	}

	result, _, err := gen.exec.Sample(c, NewSampler(src), targets...)
	if err != nil {
		return "", err
	}

	return labels[LinearRange(result.Int(), 0, len(labels)-1)], nil
}

// draw measures the shared Hadamard circuit and returns u ∈ [0, 1).
func (gen *Generator) draw(src RandomSource) (float64, error) {
	result, _, err := gen.exec.Sample(gen.uniform, NewSampler(src))
	if err != nil {
		return 0, err
	}
	return Uniform(result.Int(), gen.config.UniformBits), nil
}

func (gen *Generator) id(src RandomSource) (string, error) {
	id, err := uuid.NewRandomFromReader(sourceReader{src: src})
	if err != nil {
		return "", fmt.Errorf("record id: %w", err)
	}
	return id.String(), nil
}
