package index

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"bankrip/internal/bankerr"
)

// BankID identifies a sample-rate bank. The zero value BankNone is the state
// of the scanner before any bank declaration has been seen.
type BankID int

const (
	BankNone BankID = iota
	Bank24000
	Bank44100
	Bank48000
)

var bankRates = map[BankID]int{
	Bank24000: 24000,
	Bank44100: 44100,
	Bank48000: 48000,
}

// Banks returns the recognized banks in processing order.
func Banks() []BankID {
	return []BankID{Bank24000, Bank44100, Bank48000}
}

// Rate returns the sample rate of the bank, or 0 for BankNone.
func (b BankID) Rate() int {
	return bankRates[b]
}

// String returns the sample rate as used for bank and output directory names.
func (b BankID) String() string {
	if rate := b.Rate(); rate != 0 {
		return strconv.Itoa(rate)
	}
	return "none"
}

// MarshalText renders the bank as its sample rate.
func (b BankID) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// ParseBank maps a sample rate string such as "44100" to its bank.
func ParseBank(value string) (BankID, error) {
	rate, err := strconv.Atoi(strings.TrimSpace(value))
	if err == nil {
		if bank, ok := bankForRate(rate); ok {
			return bank, nil
		}
	}
	return BankNone, fmt.Errorf("unknown bank %q (want 24000, 44100 or 48000)", value)
}

func bankForRate(rate int) (BankID, bool) {
	for bank, r := range bankRates {
		if r == rate {
			return bank, true
		}
	}
	return BankNone, false
}

// SampleEntry points at one sample inside a bank blob.
type SampleEntry struct {
	Name   string
	Offset uint64
	Length uint64
	Bank   BankID
	// Line is the 1-based description line the entry came from.
	Line int
}

// Stats describes what the scanner saw while building an index.
type Stats struct {
	Lines   int `json:"lines"`
	Samples int `json:"samples"`
	// Orphaned counts sample declarations seen before any bank declaration.
	Orphaned int `json:"orphaned"`
	// Duplicates counts entries whose name already appeared in the same bank.
	// They are kept; the later output file overwrites the earlier one.
	Duplicates int `json:"duplicates"`
	// Malformed counts sample declarations whose offset or length does not
	// fit in 64 bits. They are dropped.
	Malformed int `json:"malformed"`
}

// Index maps each bank to its sample entries in description order.
type Index struct {
	entries map[BankID][]SampleEntry
	Stats   Stats
}

// Entries returns a copy of the bank's entries.
func (x Index) Entries(bank BankID) []SampleEntry {
	return append([]SampleEntry(nil), x.entries[bank]...)
}

// Total returns the number of entries across all banks.
func (x Index) Total() int {
	total := 0
	for _, entries := range x.entries {
		total += len(entries)
	}
	return total
}

// Options configures the description scanner.
type Options struct {
	// BankName is the data bank name a bank declaration must carry. Default "core".
	BankName string
}

const (
	defaultBankName = "core"
	maxLineBytes    = 1 << 20
)

var samplePattern = regexp.MustCompile(`AddSampleData\s*\(\s*"([^"]+)"\s*,\s*(\d+)\s*,\s*(\d+)\s*\)`)

func bankPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`CreateDataBank\s*\(\s*"` + regexp.QuoteMeta(name) + `"\s*,\s*(\d+)\b`)
}

// Build scans a description and groups every sample declaration under the
// bank declared most recently above it.
func Build(r io.Reader, opts Options) (Index, error) {
	name := strings.TrimSpace(opts.BankName)
	if name == "" {
		name = defaultBankName
	}
	bankRe := bankPattern(name)

	idx := Index{entries: make(map[BankID][]SampleEntry, len(bankRates))}
	current := BankNone
	seen := make(map[BankID]map[string]struct{}, len(bankRates))

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		idx.Stats.Lines++
		line := scanner.Text()

		if m := bankRe.FindStringSubmatch(line); m != nil {
			if rate, err := strconv.Atoi(m[1]); err == nil {
				if bank, ok := bankForRate(rate); ok {
					current = bank
				}
			}
		}

		m := samplePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		offset, errOffset := strconv.ParseUint(m[2], 10, 64)
		length, errLength := strconv.ParseUint(m[3], 10, 64)
		if errOffset != nil || errLength != nil {
			idx.Stats.Malformed++
			continue
		}
		if current == BankNone {
			idx.Stats.Orphaned++
			continue
		}
		if seen[current] == nil {
			seen[current] = make(map[string]struct{})
		}
		if _, dup := seen[current][m[1]]; dup {
			idx.Stats.Duplicates++
		}
		seen[current][m[1]] = struct{}{}
		idx.entries[current] = append(idx.entries[current], SampleEntry{
			Name:   m[1],
			Offset: offset,
			Length: length,
			Bank:   current,
			Line:   idx.Stats.Lines,
		})
		idx.Stats.Samples++
	}
	if err := scanner.Err(); err != nil {
		return Index{}, bankerr.Wrap(bankerr.ErrDescription, "", "scan", fmt.Sprintf("line %d", idx.Stats.Lines+1), err)
	}
	return idx, nil
}

// BuildFile reads the description at path and builds its index. Any read
// failure is tagged with bankerr.ErrDescription and aborts the run.
func BuildFile(path string, opts Options) (Index, error) {
	file, err := os.Open(path)
	if err != nil {
		return Index{}, bankerr.Wrap(bankerr.ErrDescription, "", "open", path, err)
	}
	defer file.Close()
	return Build(file, opts)
}
