package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Question:
		o.printQuestion(v)
	case []Question:
		o.printQuestions(v)
	case VerifyResult:
		o.printVerifyResult(v)
	case SessionInfo:
		o.printSessionInfo(v)
	case AdminAccount:
		o.printAdminAccount(v)
	case []AdminAccount:
		o.printAdminAccounts(v)
	case LoginResult:
		o.printLoginResult(v)
	case Pet:
		o.printPet(v)
	case ActionResult:
		o.printActionResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Question response type (matches API)
type Question struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Hint     string `json:"hint,omitempty"`
}

// VerifyResult response type
type VerifyResult struct {
	Token string `json:"token"`
}

// SessionInfo response type
type SessionInfo struct {
	Authenticated bool   `json:"authenticated"`
	Role          string `json:"role,omitempty"`
}

// AdminAccount response type
type AdminAccount struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Status   string `json:"status"`
}

// LoginResult response type
type LoginResult struct {
	Token string       `json:"token"`
	Admin AdminAccount `json:"admin"`
}

// Pet response type
type Pet struct {
	Name          string            `json:"name"`
	Color         string            `json:"color"`
	Level         int               `json:"level"`
	Experience    int               `json:"experience"`
	RequiredExp   int               `json:"required_exp"`
	Happiness     int               `json:"happiness"`
	Hunger        int               `json:"hunger"`
	Evolution     int               `json:"evolution"`
	Accessories   []string          `json:"accessories"`
	EquippedItems map[string]string `json:"equipped_items"`
}

// ActionResult response type
type ActionResult struct {
	Pet       Pet  `json:"pet"`
	ExpGained int  `json:"exp_gained"`
	LeveledUp bool `json:"leveled_up"`
	Evolved   bool `json:"evolved"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printQuestion(q Question) {
	fmt.Printf("Question: %s\n", q.Question)
	if q.Hint != "" {
		fmt.Printf("Hint: %s\n", q.Hint)
	}
	fmt.Printf("ID: %s\n", q.ID)
}

func (o *Output) printQuestions(qs []Question) {
	fmt.Printf("Questions (%d):\n", len(qs))
	for _, q := range qs {
		fmt.Printf("  - %s (%s)\n", q.Question, q.ID)
	}
}

func (o *Output) printVerifyResult(v VerifyResult) {
	fmt.Println("Correct!")
	fmt.Printf("Token: %s\n", v.Token)
}

func (o *Output) printSessionInfo(s SessionInfo) {
	if !s.Authenticated {
		fmt.Println("Not authenticated")
		return
	}
	fmt.Printf("Authenticated as: %s\n", s.Role)
}

func (o *Output) printAdminAccount(a AdminAccount) {
	fmt.Printf("Admin: %s (%s)\n", a.Username, a.ID)
	fmt.Printf("Status: %s\n", a.Status)
}

func (o *Output) printAdminAccounts(as []AdminAccount) {
	fmt.Printf("Admins (%d):\n", len(as))
	for _, a := range as {
		fmt.Printf("  - %s [%s] (%s)\n", a.Username, a.Status, a.ID)
	}
}

func (o *Output) printLoginResult(l LoginResult) {
	o.printAdminAccount(l.Admin)
	fmt.Printf("Token: %s\n", l.Token)
}

func (o *Output) printPet(p Pet) {
	fmt.Printf("%s (level %d, tier %d, %s)\n", p.Name, p.Level, p.Evolution, p.Color)
	fmt.Printf("Experience: %d/%d\n", p.Experience, p.RequiredExp)
	fmt.Printf("Happiness: %d/100\n", p.Happiness)
	fmt.Printf("Hunger: %d/100\n", p.Hunger)
	if len(p.Accessories) > 0 {
		fmt.Printf("Accessories: %s\n", strings.Join(p.Accessories, ", "))
	}
	if len(p.EquippedItems) > 0 {
		slots := make([]string, 0, len(p.EquippedItems))
		for slot := range p.EquippedItems {
			slots = append(slots, slot)
		}
		sort.Strings(slots)
		fmt.Println("Equipped:")
		for _, slot := range slots {
			fmt.Printf("  %s: %s\n", slot, p.EquippedItems[slot])
		}
	}
}

func (o *Output) printActionResult(a ActionResult) {
	fmt.Printf("Gained %d exp\n", a.ExpGained)
	if a.LeveledUp {
		fmt.Println("Level up!")
	}
	if a.Evolved {
		fmt.Println("Evolved!")
	}
	o.printPet(a.Pet)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
