package main

import (
	"os"
	"path/filepath"
	"strings"

	"charm-donate-tui/campaign"
	"charm-donate-tui/chain"
	"charm-donate-tui/config"
	"charm-donate-tui/helpers"
	"charm-donate-tui/styles"
	"charm-donate-tui/wallet"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
)

// -------------------- MODEL --------------------

// model represents the application state following The Elm Architecture
type model struct {
	w, h int

	activePage config.Page

	cfg        config.Config
	configPath string

	// chain state
	binding       *chain.Binding
	rpcURL        string
	rpcConnected  bool
	rpcConnecting bool

	// wallet state
	provider         *wallet.KeystoreProvider
	session          *wallet.Session
	connecting       bool
	walletWatchArmed bool
	// passphrase prompt shown before an explicit connect
	connectForm   *huh.Form
	showConnect   bool
	walletError   string

	// domain services, rebuilt on every (re)connect
	repo   *campaign.Repository
	submit *campaign.Submission

	// listing state
	campaigns        []campaign.Campaign
	selectedCampaign int
	listLoading      bool
	listError        string

	// detail state
	detailID      uint64
	detail        campaign.Campaign
	ledger        []campaign.Donation
	detailLoading bool
	detailError   string
	donateInput   textinput.Model
	typing        bool
	donating      bool
	donateStatus  string
	showQR        bool
	copiedMsg     string

	// create state
	createForm    *huh.Form
	creating      bool
	createError   string
	createSuccess bool

	// settings state
	selectedRPCIdx int

	spin spinner.Model

	// logger panel
	logEnabled  bool
	logger      *log.Logger
	logBuffer   *strings.Builder
	logViewport viewport.Model
	logReady    bool
	logSpinner  spinner.Model
}

// newModel creates and initializes a new model with configuration from disk
func newModel() model {
	homeDir, _ := os.UserHomeDir()
	configPath := filepath.Join(homeDir, ".charm-donate-config.json")

	cfg := config.ApplyEnv(config.LoadOrCreate(configPath))

	// spinner
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	// donation amount input
	in := textinput.New()
	in.Placeholder = "0.0"
	in.Prompt = "Amount (ETH): "
	in.PromptStyle = lipgloss.NewStyle().Foreground(styles.CAccent)
	in.TextStyle = lipgloss.NewStyle().Foreground(styles.CText)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)
	in.CharLimit = 32
	in.Width = 24

	// log viewport, resized on first WindowSizeMsg
	vp := viewport.New(0, 20)
	vp.Style = lipgloss.NewStyle().
		Foreground(styles.CText).
		Background(styles.CPanel)

	logSpin := spinner.New()
	logSpin.Spinner = spinner.Dot
	logSpin.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	m := model{
		activePage:  config.PageListing,
		cfg:         cfg,
		configPath:  configPath,
		rpcURL:      cfg.ActiveRPC(),
		provider:    wallet.NewKeystoreProvider(cfg.KeystoreDir),
		donateInput: in,
		spin:        sp,
		logEnabled:  cfg.Logger,
		logViewport: vp,
		logBuffer:   &strings.Builder{},
		logSpinner:  logSpin,
	}
	m.rpcConnecting = m.rpcURL != ""

	// Refuse to dial with a bogus contract target
	if !helpers.IsValidEthAddress(cfg.ContractAddress) {
		m.rpcURL = ""
		m.rpcConnecting = false
		m.listError = "Invalid contract address in config. Set DONATION_CONTRACT_ADDRESS or fix the config file"
	}

	return m
}

// Init implements tea.Model interface and returns initial commands
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if m.logEnabled {
		cmds = append(cmds, initLogViewport(), m.logSpinner.Tick)
	}
	// connect if rpc is set
	if m.rpcURL != "" {
		cmds = append(cmds, connectChain(m.rpcURL, m.contractAddress()))
	}
	return tea.Batch(cmds...)
}

// -------------------- MODEL HELPER METHODS --------------------

// addLog adds a log entry with timestamp and type
func (m *model) addLog(logType, message string) {
	if !m.logEnabled || !m.logReady || m.logger == nil {
		return
	}

	switch logType {
	case "info":
		m.logger.Info(message)
	case "success":
		m.logger.Info("✓", "msg", message)
	case "error":
		m.logger.Error(message)
	case "warning":
		m.logger.Warn(message)
	case "debug":
		m.logger.Debug(message)
	default:
		m.logger.Print(message)
	}

	m.updateLogViewport()
}

// updateLogViewport refreshes the viewport content with log output
func (m *model) updateLogViewport() {
	if !m.logReady || m.logBuffer == nil {
		return
	}

	m.logViewport.SetContent(m.logBuffer.String())
	m.logViewport.GotoBottom()
}

// textInputActive returns true if any text input is currently active
func (m model) textInputActive() bool {
	if m.typing {
		return true
	}
	if m.showConnect && m.connectForm != nil {
		return true
	}
	if m.activePage == config.PageCreate && m.createForm != nil && !m.creating && !m.createSuccess {
		return true
	}
	return false
}

// contractAddress returns the configured platform contract address
func (m model) contractAddress() common.Address {
	return common.HexToAddress(m.cfg.ContractAddress)
}

// sessionConnected reports whether a wallet session exists and is connected
func (m model) sessionConnected() bool {
	return m.session != nil && m.session.IsConnected()
}

// activeAddress returns the connected wallet address for display
func (m model) activeAddress() string {
	if m.session == nil {
		return ""
	}
	addr, ok := m.session.CurrentAddress()
	if !ok {
		return ""
	}
	return addr.Hex()
}
