// Package recipe defines the payloads exchanged with the ChefSnap backend:
// the analysis result of an uploaded photo and the recipes it suggests.
package recipe

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// AnalysisResult is the body returned by the analyze endpoint
type AnalysisResult struct {
	Filename     string        `json:"filename,omitempty"`
	OCRResult    *OCRResult    `json:"ocr_result"`
	AIPrediction *AIPrediction `json:"ai_prediction"`
	Recipe       *Recipe       `json:"recipe,omitempty"`

	// Error is set by the backend when it answers 200 but could not run
	// its models.
	Error string `json:"error,omitempty"`
}

// OCRResult holds text read from packaging
type OCRResult struct {
	Status        string   `json:"status,omitempty"`
	Message       string   `json:"message,omitempty"`
	RawTextLength int      `json:"raw_text_length,omitempty"`
	Candidates    []string `json:"candidates"`
}

// AIPrediction is the classifier's single best guess
type AIPrediction struct {
	ClassID    int        `json:"class_id"`
	Label      string     `json:"label"`
	Confidence Confidence `json:"confidence"`
	Note       string     `json:"note,omitempty"`
}

// Recipe is a suggested or saved recipe
type Recipe struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	CookingTime  string   `json:"cooking_time,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	Macros       Macros   `json:"macros,omitempty"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

// Calories returns the calories macro or "N/A"
func (r *Recipe) Calories() string {
	if v := r.Macros.Get("calories"); v != "" {
		return v
	}
	return "N/A"
}

// SavedRecipe is a cookbook entry
type SavedRecipe struct {
	ID string `json:"id"`
	Recipe
	CreatedAt time.Time `json:"created_at,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
}

// UnmarshalJSON accepts the identifier under "_id" or "id", preferring "_id".
func (s *SavedRecipe) UnmarshalJSON(data []byte) error {
	var aux struct {
		MongoID   string `json:"_id"`
		ID        string `json:"id"`
		CreatedAt string `json:"created_at"`
		UserID    string `json:"user_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &s.Recipe); err != nil {
		return err
	}

	s.ID = aux.MongoID
	if s.ID == "" {
		s.ID = aux.ID
	}
	s.CreatedAt = parseTimestamp(aux.CreatedAt)
	s.UserID = aux.UserID
	return nil
}

// timestampLayouts covers RFC 3339 and the naive ISO form produced by
// Python's datetime.isoformat().
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// parseTimestamp returns the zero time for empty or unrecognised input
func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Macros holds nutrition values keyed by name (calories, protein, ...).
// Values arrive as strings ("350 kcal") or plain numbers.
type Macros map[string]string

// Get returns the value stored under key, or "" when absent
func (m Macros) Get(key string) string {
	if m == nil {
		return ""
	}
	return m[key]
}

// macroOrder lists the macros shown first, in this order; others follow
// alphabetically
var macroOrder = []string{"calories", "protein", "carbs", "fat", "fiber"}

// Keys returns the macro names in display order
func (m Macros) Keys() []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, k := range macroOrder {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	rest := make([]string, 0, len(m))
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// UnmarshalJSON converts numeric and string values alike to strings.
func (m *Macros) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*m = nil
		return nil
	}

	out := make(Macros, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	*m = out
	return nil
}

// Confidence is a classifier score normalised to [0,1]. The backend sends
// either a number or a percentage string such as "92.00%"; Text keeps the
// original form for display.
type Confidence struct {
	Value float64
	Text  string
}

// String returns the confidence as the backend phrased it
func (c Confidence) String() string {
	if c.Text != "" {
		return c.Text
	}
	return strconv.FormatFloat(c.Value, 'f', -1, 64)
}

// Percent formats the confidence as a percentage such as "92.00%"
func (c Confidence) Percent() string {
	if strings.HasSuffix(c.Text, "%") {
		return c.Text
	}
	return fmt.Sprintf("%.2f%%", c.Value*100)
}

// MarshalJSON writes the normalised fraction
func (c Confidence) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Value)
}

// UnmarshalJSON parses a number, a numeric string or a percentage string.
func (c *Confidence) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Confidence{}
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*c = Confidence{Value: num}
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("confidence must be a number or string: %w", err)
	}

	parsed, err := ParseConfidence(text)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseConfidence parses "0.92", "92%" or "92.00%" into a Confidence.
func ParseConfidence(text string) (Confidence, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Confidence{}, nil
	}

	percent := strings.HasSuffix(trimmed, "%")
	num, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(trimmed, "%")), 64)
	if err != nil {
		return Confidence{}, fmt.Errorf("invalid confidence %q: %w", text, err)
	}
	if percent {
		num /= 100
	}
	return Confidence{Value: num, Text: trimmed}, nil
}
