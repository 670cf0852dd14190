package patch

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const DateFormat = "2006-01-02"

// ValidationError lists every problem found in a bulk patch form
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid bulk patch request: " + strings.Join(e.Problems, "; ")
}

// Request is a validated bulk patch request
type Request struct {
	ID           uuid.UUID
	Product      string
	MachineNames []string
	PatchDate    time.Time
	includeDate  bool
}

// Payload is the body sent to the backend bulk patch endpoint
type Payload struct {
	Product      string   `json:"producto"`
	MachineNames []string `json:"machineNames"`
	PatchDate    string   `json:"fechaParchado,omitempty"`
}

// Payload returns the request body. The patch date is only included when the builder was configured to do so.
func (r *Request) Payload() Payload {
	p := Payload{
		Product:      r.Product,
		MachineNames: r.MachineNames,
	}
	if r.includeDate {
		p.PatchDate = r.PatchDate.Format(DateFormat)
	}
	return p
}

type Builder struct {
	includeDate bool
}

// NewBuilder creates a request builder. includeDate controls whether the collected patch date is sent to the backend.
func NewBuilder(includeDate bool) *Builder {
	return &Builder{includeDate: includeDate}
}

// Build validates the form values and packages them into a Request
func (b *Builder) Build(product, machineNamesText, patchDate string) (*Request, error) {
	problems := make([]string, 0)

	product = strings.TrimSpace(product)
	if product == "" {
		problems = append(problems, "a vulnerability must be selected")
	}

	machines := SplitMachineNames(machineNamesText)
	if len(machines) == 0 {
		problems = append(problems, "at least one machine name is required")
	}

	var date time.Time
	patchDate = strings.TrimSpace(patchDate)
	if patchDate == "" {
		problems = append(problems, "a patch date is required")
	} else {
		d, err := time.Parse(DateFormat, patchDate)
		if err != nil {
			problems = append(problems, "patch date must be on the format YYYY-MM-DD")
		}
		date = d
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	return &Request{
		ID:           uuid.New(),
		Product:      product,
		MachineNames: machines,
		PatchDate:    date,
		includeDate:  b.includeDate,
	}, nil
}

// SplitMachineNames splits a newline separated list of machine names, trimming whitespace and dropping empty lines
func SplitMachineNames(text string) []string {
	ret := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ret = append(ret, line)
	}
	return ret
}
