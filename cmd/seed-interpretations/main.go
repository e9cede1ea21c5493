package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultBaseURL = "http://localhost:5000"

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

type interpretation struct {
	Keyword        string `json:"keyword"`
	Meaning        string `json:"meaning"`
	CulturalOrigin string `json:"cultural_origin"`
}

// The built-in reference table seeded by this tool.
var interpretations = []interpretation{
	{
		Keyword:        "flying",
		Meaning:        "Flying in dreams often represents a desire for freedom or escape from life's constraints. It can also symbolize ambition or rising above problems.",
		CulturalOrigin: "Western",
	},
	{
		Keyword:        "falling",
		Meaning:        "Falling dreams typically represent feelings of insecurity, lack of control, or fear of failure in waking life.",
		CulturalOrigin: "Universal",
	},
	{
		Keyword:        "teeth",
		Meaning:        "Dreams about losing teeth may indicate anxiety about appearance, fear of getting older, or concerns about communication.",
		CulturalOrigin: "Western",
	},
	{
		Keyword:        "water",
		Meaning:        "Water often represents emotions. Calm water suggests peace while turbulent water may indicate emotional turmoil.",
		CulturalOrigin: "Eastern",
	},
	{
		Keyword:        "snake",
		Meaning:        "Snakes can symbolize transformation, healing, or hidden threats depending on the context of the dream.",
		CulturalOrigin: "Indigenous",
	},
}

type step int

const (
	stepEnteringEmail step = iota
	stepEnteringPassword
	stepLoggingIn
	stepSeeding
	stepComplete
)

type model struct {
	step         step
	baseURL      string
	email        string
	password     string
	token        string
	currentInput string
	seedIndex    int
	results      []string
	message      string
	quitting     bool
}

type loginSuccessMsg struct{ token string }
type seedResultMsg struct {
	keyword string
	err     error
}
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func initialModel() model {
	baseURL := os.Getenv("API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return model{
		step:    stepEnteringEmail,
		baseURL: baseURL,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func login(baseURL, email, password string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 10 * time.Second}

		payload := map[string]string{
			"email":    email,
			"password": password,
		}
		jsonData, _ := json.Marshal(payload)

		req, _ := http.NewRequest("POST", baseURL+"/api/v1/auth/login", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return errMsg{fmt.Errorf("could not reach the API at %s: %w", baseURL, err)}
		}
		defer resp.Body.Close()

		var result map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return errMsg{fmt.Errorf("unexpected response from the API")}
		}

		success, _ := result["success"].(bool)
		token, _ := result["token"].(string)
		if resp.StatusCode != http.StatusOK || !success || token == "" {
			return errMsg{fmt.Errorf("login failed - check the email and password (an admin account is required)")}
		}

		return loginSuccessMsg{token: token}
	}
}

func seedOne(baseURL, token string, item interpretation) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 10 * time.Second}

		jsonData, _ := json.Marshal(item)
		req, _ := http.NewRequest("POST", baseURL+"/api/v1/interpretations", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := client.Do(req)
		if err != nil {
			return seedResultMsg{keyword: item.Keyword, err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusCreated {
			return seedResultMsg{keyword: item.Keyword}
		}

		var result map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&result)
		if msg, ok := result["error"].(string); ok {
			return seedResultMsg{keyword: item.Keyword, err: fmt.Errorf("%s", msg)}
		}
		return seedResultMsg{keyword: item.Keyword, err: fmt.Errorf("status %d", resp.StatusCode)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			switch m.step {
			case stepEnteringEmail:
				if m.currentInput != "" {
					m.email = m.currentInput
					m.currentInput = ""
					m.step = stepEnteringPassword
				}
			case stepEnteringPassword:
				if m.currentInput != "" {
					m.password = m.currentInput
					m.currentInput = ""
					m.step = stepLoggingIn
					m.message = ""
					return m, login(m.baseURL, m.email, m.password)
				}
			case stepComplete:
				m.quitting = true
				return m, tea.Quit
			}

		case "backspace":
			if len(m.currentInput) > 0 {
				m.currentInput = m.currentInput[:len(m.currentInput)-1]
			}

		default:
			if m.step == stepEnteringEmail || m.step == stepEnteringPassword {
				if len(msg.String()) == 1 {
					m.currentInput += msg.String()
				}
			}
		}

	case loginSuccessMsg:
		m.token = msg.token
		m.step = stepSeeding
		m.seedIndex = 0
		return m, seedOne(m.baseURL, m.token, interpretations[0])

	case seedResultMsg:
		if msg.err != nil {
			m.results = append(m.results, errorStyle.Render(fmt.Sprintf("✗ %s: %v", msg.keyword, msg.err)))
		} else {
			m.results = append(m.results, successStyle.Render(fmt.Sprintf("✓ %s", msg.keyword)))
		}
		m.seedIndex++
		if m.seedIndex < len(interpretations) {
			return m, seedOne(m.baseURL, m.token, interpretations[m.seedIndex])
		}
		m.step = stepComplete

	case errMsg:
		m.message = msg.Error()
		m.step = stepEnteringEmail
		m.currentInput = ""
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	s := titleStyle.Render("Dream Journal - Interpretation Seeder") + "\n"
	s += dimStyle.Render("API: "+m.baseURL) + "\n\n"

	if m.message != "" {
		s += errorStyle.Render(m.message) + "\n\n"
	}

	switch m.step {
	case stepEnteringEmail:
		s += promptStyle.Render("Admin email: ") + inputStyle.Render(m.currentInput+"▌") + "\n"
	case stepEnteringPassword:
		s += promptStyle.Render("Password: ") + inputStyle.Render(maskInput(m.currentInput)+"▌") + "\n"
	case stepLoggingIn:
		s += "Logging in...\n"
	case stepSeeding, stepComplete:
		for _, r := range m.results {
			s += r + "\n"
		}
		if m.step == stepSeeding {
			s += fmt.Sprintf("\nSeeding %s...\n", interpretations[m.seedIndex].Keyword)
		} else {
			s += "\n" + successStyle.Render("Done.") + " Press enter to exit.\n"
		}
	}

	s += dimStyle.Render("\nctrl+c to quit")
	return s
}

func maskInput(in string) string {
	out := ""
	for range in {
		out += "*"
	}
	return out
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}
