package source

import (
	"bytes"
	_ "embed"
	"math/rand"
	"strconv"
	"time"

	"empgrid/internal/model"
	"empgrid/internal/parse"
)

//go:embed seed.json
var seedJSON []byte

var jobTitles = []string{
	"Software Engineer",
	"Product Manager",
	"UX Designer",
	"Marketing Specialist",
	"Customer Support",
	"Sales Representative",
	"HR Manager",
	"Data Scientist",
	"DevOps Engineer",
	"Content Writer",
}

var (
	firstNames = []string{"John", "Jane", "Michael", "Emma"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown"}
	nicknames  = []string{"Ace", "Buddy", "Chief", "Doc"}
)

const (
	minAge           = 20
	maxAge           = 60
	nicknameChance   = 0.6
	isEmployeeChance = 0.7
)

// Source synthesizes employee records. It is not safe for concurrent use.
type Source struct {
	rng *rand.Rand
}

func New(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

func NewRandom() *Source { return New(time.Now().UnixNano()) }

// Synthesize returns count records with ids startID..startID+count-1.
func (s *Source) Synthesize(count, startID int) []model.Employee {
	if count <= 0 {
		return nil
	}
	out := make([]model.Employee, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, s.one(startID+i))
	}
	return out
}

func (s *Source) one(id int) model.Employee {
	e := model.Employee{
		ID:       strconv.Itoa(id),
		Name:     pick(s.rng, firstNames) + " " + pick(s.rng, lastNames),
		JobTitle: pick(s.rng, jobTitles),
		Age:      minAge + s.rng.Intn(maxAge-minAge+1),
	}
	if s.rng.Float64() < nicknameChance {
		e.Nickname = pick(s.rng, nicknames)
	}
	e.IsEmployee = s.rng.Float64() < isEmployeeChance
	return e
}

func pick(r *rand.Rand, vocab []string) string {
	return vocab[r.Intn(len(vocab))]
}

// Seed returns the built-in seed batch.
func Seed() ([]model.Employee, error) {
	return parse.Records(bytes.NewReader(seedJSON))
}
