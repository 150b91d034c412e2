package tool

import (
	"regexp"
	"strconv"
	"strings"
)

// tailSize is how many output lines are kept for failure messages.
const tailSize = 20

var (
	percentPattern = regexp.MustCompile(`(\d+\.?\d*)%`)
	ratePattern    = regexp.MustCompile(`at\s+([\d.]+\s*[KMG]?i?B/s)`)
	etaPattern     = regexp.MustCompile(`ETA\s+([\d:]+)`)

	destinationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\[download\] Destination: (.+)`),
		regexp.MustCompile(`\[ExtractAudio\] Destination: (.+)`),
		regexp.MustCompile(`\[download\] (.+) has already been downloaded`),
		regexp.MustCompile(`Downloaded "(.+)"`),
	}

	failurePattern = regexp.MustCompile(`^(ERROR:|[A-Z][A-Za-z]*Error:)`)
)

// spotdl reports stages instead of percentages.
var spotdlStages = []struct {
	word    string
	percent int
}{
	{"Downloading", 50},
	{"Converting", 80},
	{"Downloaded", 100},
}

// Parser extracts progress from one tool's output. It is not safe for
// concurrent use; each job owns its parser.
type Parser struct {
	kind    Kind
	percent int
	rate    string
	eta     string
	output  string
	failure string
	tail    []string
}

// NewParser returns a parser for the given tool's output.
func NewParser(kind Kind) *Parser {
	return &Parser{kind: kind}
}

// Feed consumes one output line. It returns a progress event when the line
// changed percent, rate or ETA.
func (p *Parser) Feed(line string) (Event, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Event{}, false
	}
	p.remember(line)

	for _, re := range destinationPatterns {
		if m := re.FindStringSubmatch(line); m != nil {
			p.output = strings.TrimSpace(m[1])
			break
		}
	}
	if p.failure == "" && failurePattern.MatchString(line) {
		p.failure = line
	}

	percent, rate, eta, ok := p.parseProgress(line)
	if !ok || (percent == p.percent && rate == p.rate && eta == p.eta) {
		return Event{}, false
	}
	p.percent, p.rate, p.eta = percent, rate, eta
	return Event{Type: EventProgress, Percent: percent, Rate: rate, ETA: eta}, true
}

func (p *Parser) parseProgress(line string) (int, string, string, bool) {
	if m := percentPattern.FindStringSubmatch(line); m != nil {
		if value, err := strconv.ParseFloat(m[1], 64); err == nil {
			percent := max(p.percent, min(100, int(value)))

			var rate, eta string
			if rm := ratePattern.FindStringSubmatch(line); rm != nil {
				rate = rm[1]
			}
			if em := etaPattern.FindStringSubmatch(line); em != nil {
				eta = em[1]
			}
			return percent, rate, eta, true
		}
	}

	if p.kind == SpotDL {
		for _, stage := range spotdlStages {
			if strings.Contains(line, stage.word) && p.percent < stage.percent {
				return stage.percent, "", "", true
			}
		}
	}

	return 0, "", "", false
}

func (p *Parser) remember(line string) {
	if len(p.tail) == tailSize {
		copy(p.tail, p.tail[1:])
		p.tail = p.tail[:tailSize-1]
	}
	p.tail = append(p.tail, line)
}

// Percent returns the highest percentage seen so far.
func (p *Parser) Percent() int {
	return p.percent
}

// OutputPath returns the last destination file reported by the tool.
func (p *Parser) OutputPath() string {
	return p.output
}

// Failure returns the first recognized failure line, if any.
func (p *Parser) Failure() string {
	return p.failure
}

// Tail returns the last output lines joined by newlines.
func (p *Parser) Tail() string {
	return strings.Join(p.tail, "\n")
}
