// Command validatecache checks a persisted descriptor embedding cache for
// integrity: well-formed JSON, full vocabulary coverage, consistent vector
// dimensions, and non-degenerate vectors. Run it after pointing the
// pipeline at a new embedding model to confirm the cache was rebuilt
// cleanly.
//
// Usage:
//
//	go run ./cmd/validatecache \
//	  -cache data/descriptor_embeddings.json \
//	  -dimensions 700
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/couchcryptid/forecast-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	cachePath := flag.String("cache", "", "path to the descriptor embedding cache file")
	dimensions := flag.Int("dimensions", 0, "expected vector dimensions (0 skips the check)")
	flag.Parse()

	if *cachePath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*cachePath, *dimensions); code != 0 {
		os.Exit(code)
	}
}

func run(cachePath string, dimensions int) int {
	fmt.Println("=== Descriptor Embedding Cache Validation ===")
	fmt.Println()

	data, err := os.ReadFile(cachePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read cache: %v\n", err)
		return 1
	}

	var vectors map[string][]float64
	if err := json.Unmarshal(data, &vectors); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: parse cache: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateCoverage(vectors),
		validateDimensions(vectors, dimensions),
		validateMagnitudes(vectors),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Cache: %d descriptors, %d expected\n", len(vectors), len(domain.Descriptors()))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validateCoverage checks the cache keyset exactly matches the descriptor
// vocabulary. A mismatch means the pipeline will rebuild on next start.
func validateCoverage(vectors map[string][]float64) *phase {
	p := &phase{name: "Phase 1: Vocabulary Coverage"}

	for _, descriptor := range domain.Descriptors() {
		if _, ok := vectors[descriptor]; !ok {
			p.errorf("missing descriptor %q", descriptor)
		}
	}

	var extras []string
	for key := range vectors {
		if !domain.IsDescriptor(key) {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	for _, key := range extras {
		p.errorf("unknown descriptor %q not in vocabulary", key)
	}
	return p
}

// validateDimensions checks every vector has the same length, and the
// expected one when -dimensions was given.
func validateDimensions(vectors map[string][]float64, expected int) *phase {
	p := &phase{name: "Phase 2: Vector Dimensions"}

	want := expected
	for _, descriptor := range domain.Descriptors() {
		vec, ok := vectors[descriptor]
		if !ok {
			continue
		}
		if want == 0 {
			want = len(vec)
		}
		if len(vec) != want {
			p.errorf("%q: %d dimensions, expected %d", descriptor, len(vec), want)
		}
	}
	return p
}

// validateMagnitudes flags zero or non-finite vectors. A zero vector makes
// cosine similarity against it always zero, silently disabling that
// descriptor for embedding matches.
func validateMagnitudes(vectors map[string][]float64) *phase {
	p := &phase{name: "Phase 3: Vector Magnitudes"}

	for _, descriptor := range domain.Descriptors() {
		vec, ok := vectors[descriptor]
		if !ok {
			continue
		}
		var sum float64
		finite := true
		for _, v := range vec {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				finite = false
				break
			}
			sum += v * v
		}
		if !finite {
			p.errorf("%q: vector contains NaN or Inf", descriptor)
			continue
		}
		if sum == 0 {
			p.errorf("%q: zero vector", descriptor)
		}
	}
	return p
}
