// Package scrambler handles label allocation and context persistence.
package scrambler

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/whit3rabbit/gdmixer/internal/config"
)

const (
	// Characters for different scramble modes
	firstCharsIdentifier = "abcdefghijklmnopqrstuvwxyz"
	allCharsIdentifier   = "0123456789abcdefghijklmnopqrstuvwxyz_"
	firstCharsHex        = "abcdef"
	allCharsHex          = "0123456789abcdef"
	firstCharsNumeric    = "O"
	allCharsNumeric      = "0123456789"

	// Limits
	maxIdentifierLen = 16
	maxHexNumericLen = 32
	minScrambleLen   = 2
	maxRegenAttempts = 50

	// Context serialization version
	contextVersion = "gdmixer-scramble-v1.0"
)

// ScrambleType defines the namespace an allocator serves.
type ScrambleType string

const (
	// TypePublic names are shared and stable across every file in a run.
	TypePublic ScrambleType = "public"
	// TypePrivate names are valid only within the file that declared them.
	// A fresh private allocator is created per file.
	TypePrivate ScrambleType = "private"
)

// AllScrambleTypes lists every known allocator namespace.
var AllScrambleTypes = []ScrambleType{TypePublic, TypePrivate}

// ParseScrambleType converts a string identifier to its corresponding
// ScrambleType constant. Returns an error if the type string is invalid.
func ParseScrambleType(typeStr string) (ScrambleType, error) {
	lowerType := strings.ToLower(strings.TrimSpace(typeStr))
	for _, sType := range AllScrambleTypes {
		if string(sType) == lowerType {
			return sType, nil
		}
	}
	return "", fmt.Errorf("invalid scramble type specified: '%s'", typeStr)
}

// scramblerState holds the data that needs to be persisted.
// Use exported fields for gob encoding.
type scramblerState struct {
	Version      string
	ScrambleMap  map[string]string // original -> scrambled
	RScrambleMap map[string]string // scrambled -> original
	LabelCounter *big.Int          // Use pointer for gob
}

// Scrambler is the memoizing allocator from a source identifier to a
// freshly generated opaque identifier. The first request for a given
// identifier fixes its mapping for the lifetime of the run. Generation is
// driven by a counter rather than a random draw, so identical inputs in
// identical order always produce identical output.
type Scrambler struct {
	sType        ScrambleType
	cfg          *config.Config
	mode         string
	targetLength int
	minLength    int
	maxLength    int
	ignoreMap    map[string]bool
	ignorePrefix []string

	// State to be persisted (protected by mutex)
	scrambleMap  map[string]string
	rScrambleMap map[string]string
	labelCounter *big.Int

	mu sync.RWMutex
}

// NewScrambler creates and initializes an allocator for one namespace.
func NewScrambler(sType ScrambleType, cfg *config.Config) (*Scrambler, error) {
	if sType != TypePublic && sType != TypePrivate {
		return nil, fmt.Errorf("unknown scramble type: %s", sType)
	}
	s := &Scrambler{
		sType:        sType,
		cfg:          cfg,
		scrambleMap:  make(map[string]string),
		rScrambleMap: make(map[string]string),
		ignoreMap:    make(map[string]bool),
		labelCounter: big.NewInt(0),
	}

	s.mode = strings.ToLower(cfg.ScrambleMode)
	if s.mode == "" {
		s.mode = "identifier"
	}
	s.minLength = minScrambleLen
	s.maxLength = maxIdentifierLen
	switch s.mode {
	case "identifier":
		// default max length ok
	case "hexa", "numeric":
		s.maxLength = maxHexNumericLen
	default:
		fmt.Fprintf(os.Stderr, "Warning: Invalid scramble_mode '%s', using 'identifier'.\n", cfg.ScrambleMode)
		s.mode = "identifier"
	}
	s.targetLength = cfg.ScrambleLength
	if s.targetLength < s.minLength {
		s.targetLength = s.minLength
	}
	if s.targetLength > s.maxLength {
		s.targetLength = s.maxLength
	}

	for _, item := range cfg.IgnoreNames {
		s.ignoreMap[item] = true
	}
	s.ignorePrefix = append(s.ignorePrefix, cfg.IgnoreNamesPrefix...)

	return s, nil
}

// ShouldIgnore checks if a name should be left alone based on reserved
// words, the configured ignore list, and prefix lists.
func (s *Scrambler) ShouldIgnore(name string) bool {
	if IsReserved(name) {
		return true
	}
	if s.ignoreMap[name] {
		return true
	}
	for _, prefix := range s.ignorePrefix {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// Scramble returns the opaque identifier for originalName, allocating it
// on first request. The mapping is append-only for the life of the run.
func (s *Scrambler) Scramble(originalName string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrambleNoLock(originalName)
}

// Has reports whether originalName already has an allocation, without
// creating one. Scene/resource files never originate new renames.
func (s *Scrambler) Has(originalName string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.scrambleMap[originalName]
	return ok
}

// scrambleNoLock is the internal implementation without mutex locking.
func (s *Scrambler) scrambleNoLock(originalName string) string {
	if s.ShouldIgnore(originalName) {
		return originalName
	}
	if scrambled, exists := s.scrambleMap[originalName]; exists {
		return scrambled
	}

	for attempt := 0; attempt < maxRegenAttempts; attempt++ {
		candidate := s.generateName()
		s.labelCounter.Add(s.labelCounter, big.NewInt(1))

		if IsReserved(candidate) || s.ignoreMap[candidate] {
			continue
		}
		if _, exists := s.rScrambleMap[candidate]; exists {
			continue
		}
		s.scrambleMap[originalName] = candidate
		s.rScrambleMap[candidate] = originalName
		return candidate
	}
	fmt.Fprintf(os.Stderr, "Error: Failed to generate unique scrambled name for '%s' (type: %s) after %d attempts.\n", originalName, s.sType, maxRegenAttempts)
	s.scrambleMap[originalName] = originalName // Store original as fallback
	s.rScrambleMap[originalName] = originalName
	return originalName
}

// Unscramble looks up the original name given a scrambled name.
func (s *Scrambler) Unscramble(scrambledName string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	original, found := s.rScrambleMap[scrambledName]
	return original, found
}

// LookupObfuscated attempts to find the obfuscated name for the given
// original name without allocating a new one.
func (s *Scrambler) LookupObfuscated(original string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obfuscated, found := s.scrambleMap[original]
	return obfuscated, found
}

// generateName renders the current counter value into the charset of the
// configured mode, padded to the target length. Successive counter values
// yield distinct names; private allocators carry a leading underscore so
// they can never collide with public allocations of the same length.
func (s *Scrambler) generateName() string {
	var firstChars, allChars string
	switch s.mode {
	case "numeric":
		firstChars = firstCharsNumeric
		allChars = allCharsNumeric
	case "hexa":
		firstChars = firstCharsHex
		allChars = allCharsHex
	default:
		firstChars = firstCharsIdentifier
		allChars = allCharsIdentifier
	}

	firstLen := big.NewInt(int64(len(firstChars)))
	allLen := big.NewInt(int64(len(allChars)))

	n := new(big.Int).Set(s.labelCounter)
	rem := new(big.Int)

	sb := strings.Builder{}
	n.DivMod(n, firstLen, rem)
	sb.WriteByte(firstChars[rem.Int64()])
	for n.Sign() > 0 {
		n.DivMod(n, allLen, rem)
		sb.WriteByte(allChars[rem.Int64()])
	}

	name := sb.String()
	target := s.targetLength
	if s.sType == TypePrivate {
		target-- // leave room for the underscore prefix
	}
	for len(name) < target {
		name += string(allChars[0])
	}
	if s.sType == TypePrivate {
		name = "_" + name
	}
	return name
}

// --- Context Persistence ---

// SaveState saves the allocator's current mapping state to a file.
func (s *Scrambler) SaveState(filePath string) error {
	s.mu.RLock()
	state := scramblerState{
		Version:      contextVersion,
		ScrambleMap:  s.scrambleMap,
		RScrambleMap: s.rScrambleMap,
		LabelCounter: s.labelCounter,
	}
	s.mu.RUnlock()

	var buffer bytes.Buffer
	encoder := gob.NewEncoder(&buffer)
	if err := encoder.Encode(state); err != nil {
		return fmt.Errorf("failed to encode scrambler state: %w", err)
	}

	if err := os.WriteFile(filePath, buffer.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write scrambler state to file %s: %w", filePath, err)
	}
	return nil
}

// LoadState loads the allocator's state from a file, replacing the
// current state. A missing file is not an error.
func (s *Scrambler) LoadState(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No state to load
		}
		return fmt.Errorf("failed to read scrambler state file %s: %w", filePath, err)
	}

	buffer := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buffer)
	var state scramblerState

	if err := decoder.Decode(&state); err != nil {
		return fmt.Errorf("failed to decode scrambler state from file %s: %w", filePath, err)
	}

	if state.Version != contextVersion {
		return fmt.Errorf("incompatible context version: file has '%s', expected '%s'", state.Version, contextVersion)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Replace maps, don't merge, to reflect the loaded state accurately.
	s.scrambleMap = state.ScrambleMap
	s.rScrambleMap = state.RScrambleMap
	s.labelCounter = state.LabelCounter

	if s.scrambleMap == nil {
		s.scrambleMap = make(map[string]string)
	}
	if s.rScrambleMap == nil {
		s.rScrambleMap = make(map[string]string)
	}
	if s.labelCounter == nil {
		s.labelCounter = big.NewInt(0)
	}

	return nil
}
