// Package cli renders the terminal menus the bank is operated from.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pmarczak/zloty-bank-go/internal/bank"
	"github.com/pmarczak/zloty-bank-go/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/term"
)

// Menu drives the interactive session: the entry view for registration and
// login, and the main view for a logged-in client.
type Menu struct {
	bank   *bank.Bank
	in     *bufio.Scanner
	out    io.Writer
	logger *zap.Logger

	logged *domain.Client
}

// NewMenu creates a menu reading from in and writing to out.
func NewMenu(b *bank.Bank, in io.Reader, out io.Writer, logger *zap.Logger) *Menu {
	return &Menu{
		bank:   b,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger,
	}
}

// Run loops the entry view until the user exits or the bank goes bankrupt.
func (m *Menu) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		again, err := m.entryView(ctx)
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

// ============================================================
// Entry view
// ============================================================

func (m *Menu) entryView(ctx context.Context) (bool, error) {
	m.println("Press r to register an account")
	m.println("Press l to login")
	m.println("Press x to exit")

	switch m.readLine() {
	case "r":
		m.registerClient(ctx)
	case "l":
		if !m.login(ctx) {
			return true, nil
		}
		if !m.bank.CollectLoanPayments(ctx, m.logged) {
			m.println("Your account has been locked")
			return false, nil
		}
		if err := m.mainLoop(ctx); err != nil {
			return false, err
		}
	case "x":
		return false, nil
	}
	return true, nil
}

func (m *Menu) registerClient(ctx context.Context) {
	name := m.prompt("Enter first name: ")
	lastName := m.prompt("Enter last name: ")
	personalID := m.prompt("Enter PESEL: ")
	login := m.prompt("Enter login: ")
	password := m.readPassword("Enter password: ")

	if _, err := m.bank.Register(ctx, name, lastName, personalID, login, password); err != nil {
		m.println(err.Error())
		return
	}
	m.println("Registered successfully")
}

func (m *Menu) login(ctx context.Context) bool {
	login := m.prompt("Enter login: ")
	password := m.readPassword("Enter password: ")

	client, err := m.bank.Login(ctx, login, password)
	if err != nil {
		m.println(err.Error())
		return false
	}

	m.logged = client
	m.println("Logged in as " + client.Login())
	return true
}

// ============================================================
// Main view
// ============================================================

func (m *Menu) mainLoop(ctx context.Context) error {
	for {
		again, err := m.mainView(ctx)
		if err != nil || !again {
			m.logged = nil
			return err
		}
	}
}

func (m *Menu) mainView(ctx context.Context) (bool, error) {
	m.println("Press f to make a transfer")
	m.println("Press o to order a new card")
	m.println("Press t to make a card transaction")
	m.println("Press i to display information about your accounts")
	m.println("Press k to open a new account")
	m.println("Press j to display information about loans")
	m.println("Press q to take a loan")
	m.println("Press b to display information about a deposit")
	m.println("Press d to open a deposit")
	m.println("Press z to end a deposit")
	m.println("Press m to buy gold coins (investment account required)")
	m.println("Press s to sell owned gold coins")
	m.println("Press h to change password")
	m.println("Press x to exit")

	var err error
	switch m.readLine() {
	case "f":
		err = m.createTransfer(ctx)
	case "o":
		err = m.orderNewCard(ctx)
	case "t":
		err = m.transaction(ctx)
	case "i":
		m.checkAccounts()
	case "k":
		m.openAccount(ctx)
	case "j":
		m.println(m.bank.LoanInfo(m.logged))
	case "q":
		m.takeLoan(ctx)
	case "b":
		m.depositInfo()
	case "d":
		err = m.createDeposit(ctx)
	case "z":
		err = m.endDeposit(ctx)
	case "m":
		err = m.buyGold(ctx)
	case "s":
		err = m.sellGold(ctx)
	case "h":
		m.changePassword()
	case "x":
		return false, nil
	}

	// Bankruptcy is fatal; everything else is shown and the menu goes on.
	var bankrupt *domain.ErrBankruptcy
	if errors.As(err, &bankrupt) {
		return false, err
	}
	if err != nil {
		m.println(err.Error())
	}
	return true, nil
}

func (m *Menu) openAccount(ctx context.Context) {
	m.println("Press a if this is to be a main account")
	m.println("Press b if this is to be a crypto account")
	m.println("Press c if this is to be a savings account")
	m.println("Press d if this is to be an investment account")

	var accountType domain.AccountType
	switch m.readLine() {
	case "a":
		accountType = domain.AccountMain
	case "b":
		accountType = domain.AccountCrypto
	case "c":
		accountType = domain.AccountSavings
	case "d":
		accountType = domain.AccountInvestment
	default:
		m.println("Failed to create account")
		return
	}

	if _, err := m.bank.OpenAccount(ctx, m.logged, accountType); err != nil {
		m.println(err.Error())
		return
	}
	m.println("Account created successfully")
}

func (m *Menu) checkAccounts() {
	for _, account := range m.bank.Accounts().Owned(m.logged.PersonalID()) {
		m.println(account.String())
	}
	m.println("")
}

func (m *Menu) createTransfer(ctx context.Context) error {
	m.println("Your accounts: ")
	m.checkAccounts()

	sender := m.prompt("Enter the account number from which to make the transfer: ")
	if !m.bank.Accounts().IsClientsAccount(m.logged.PersonalID(), sender) {
		m.println("Cannot use this account")
		return nil
	}

	recipient := m.prompt("Enter the recipient's account number (you can also enter the number of one of your accounts): ")

	amount, err := domain.ParseAmount(m.prompt("Enter transfer amount: "))
	if err != nil {
		m.println(err.Error())
		return nil
	}

	if _, err := m.bank.MakeTransfer(ctx, sender, recipient, amount); err != nil {
		return err
	}
	m.println("Transfer executed :~~)")
	return nil
}

func (m *Menu) transaction(ctx context.Context) error {
	sender := m.prompt("Enter sender's account no.: ")
	recipient := m.prompt("Enter recipient's account no.: ")

	amount, err := domain.ParseAmount(m.prompt("Enter transaction amount: "))
	if err != nil {
		m.println(err.Error())
		return nil
	}

	if err := m.bank.Transaction(ctx, sender, recipient, amount); err != nil {
		m.println("Transaction failed")
	}
	return nil
}

func (m *Menu) orderNewCard(ctx context.Context) error {
	account := m.prompt("Enter account no.: ")

	m.println("Press a if this is to be a standard card (free)")
	m.println("Press b if this is to be a gold card (cost 100 zl)")
	m.println("Press c if this is to be a diamond card (cost 500 zl)")

	var cardType domain.CardType
	switch m.readLine() {
	case "a":
		cardType = domain.CardStandard
	case "b":
		cardType = domain.CardGold
	case "c":
		cardType = domain.CardDiamond
	default:
		return nil
	}

	if err := m.bank.OrderNewCard(ctx, account, cardType); err != nil {
		var notEnough *domain.ErrNotEnoughMoney
		if errors.As(err, &notEnough) {
			m.println("You have insufficient funds to order this card")
			return nil
		}
		return err
	}
	return nil
}

func (m *Menu) takeLoan(ctx context.Context) {
	months, ok := m.promptInt("Enter loan duration in months: ")
	if !ok {
		return
	}
	zloty, ok := m.promptInt("Enter loan amount (whole zl): ")
	if !ok {
		return
	}

	m.println("Your accounts:")
	m.checkAccounts()
	account := m.prompt("Choose the operational account number for the loan: ")

	if err := m.bank.TakeLoan(ctx, m.logged, domain.NewAmount(uint64(zloty), 0), months, account); err != nil {
		m.println(err.Error())
		return
	}
	m.println("Loan taken successfully")
}

func (m *Menu) createDeposit(ctx context.Context) error {
	account := m.prompt("Enter account no.: ")
	zloty, ok := m.promptInt("Enter deposit amount (whole zl): ")
	if !ok {
		return nil
	}

	if err := m.bank.CreateDeposit(ctx, account, domain.NewAmount(uint64(zloty), 0)); err != nil {
		m.println("Failed to create deposit, check if it is a savings account")
		return nil
	}
	m.println("Deposit created successfully")
	return nil
}

func (m *Menu) endDeposit(ctx context.Context) error {
	account := m.prompt("Enter account no.: ")
	return m.bank.EndDeposit(ctx, account)
}

func (m *Menu) depositInfo() {
	savings := m.bank.Accounts().SavingsOf(m.logged.PersonalID())
	if len(savings) == 0 {
		m.println("You do not have a savings account")
		return
	}

	picked, ok := pickAccount(m, savings, "Choose a savings account:")
	if !ok {
		return
	}
	if picked.Deposit() == nil {
		m.println("You do not have a deposit")
		return
	}
	m.println(picked.Deposit().String())
}

func (m *Menu) buyGold(ctx context.Context) error {
	accounts := m.bank.Accounts().InvestmentOf(m.logged.PersonalID())
	if len(accounts) == 0 {
		m.println("You do not have an investment account")
		return nil
	}

	picked, ok := pickAccount(m, accounts, "Choose an investment account:")
	if !ok {
		return nil
	}

	count, ok := m.promptInt("Enter the number of gold coins you want to buy: ")
	if !ok || count <= 0 {
		return nil
	}

	if err := m.bank.BuyGold(ctx, picked.Number(), count); err != nil {
		var bankrupt *domain.ErrBankruptcy
		if errors.As(err, &bankrupt) {
			return err
		}
		m.println(err.Error())
		return nil
	}
	m.println("Gold coins purchased")
	return nil
}

func (m *Menu) sellGold(ctx context.Context) error {
	accounts := m.bank.Accounts().InvestmentOf(m.logged.PersonalID())
	if len(accounts) == 0 {
		m.println("You do not have an investment account")
		return nil
	}

	picked, ok := pickAccount(m, accounts, "Choose an investment account:")
	if !ok {
		return nil
	}

	if err := m.bank.SellGold(ctx, picked.Number()); err != nil {
		var bankrupt *domain.ErrBankruptcy
		if errors.As(err, &bankrupt) {
			return err
		}
		m.println(err.Error())
		return nil
	}
	m.println("Gold coins sold")
	return nil
}

func (m *Menu) changePassword() {
	current := m.readPassword("Enter current password: ")
	if !m.logged.CheckPassword(current) {
		m.println("Incorrect password entered")
		return
	}

	m.logged.SetPassword(m.readPassword("Enter new password: "))
	m.println("Password has been changed")
}

// pickAccount lets the user choose among their accounts of one kind. A
// single account is picked without asking.
func pickAccount[T fmt.Stringer](m *Menu, accounts []T, header string) (T, bool) {
	if len(accounts) == 1 {
		return accounts[0], true
	}

	m.println(header)
	for i, account := range accounts {
		m.println(fmt.Sprintf("%d. %s", i+1, account.String()))
	}

	picked, ok := m.promptInt("")
	if !ok || picked <= 0 || picked > len(accounts) {
		var zero T
		return zero, false
	}
	return accounts[picked-1], true
}

// ============================================================
// Input helpers
// ============================================================

func (m *Menu) println(line string) {
	fmt.Fprintln(m.out, line)
}

func (m *Menu) readLine() string {
	if !m.in.Scan() {
		return "x"
	}
	return strings.TrimSpace(m.in.Text())
}

func (m *Menu) prompt(label string) string {
	fmt.Fprint(m.out, label)
	return m.readLine()
}

func (m *Menu) promptInt(label string) (int, bool) {
	value, err := strconv.Atoi(m.prompt(label))
	if err != nil {
		m.println("Invalid format")
		return 0, false
	}
	return value, true
}

// readPassword masks the input when stdin is a terminal; under a pipe or in
// tests it falls back to a plain line read.
func (m *Menu) readPassword(label string) string {
	fmt.Fprint(m.out, label)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(m.out, "")
		if err == nil {
			return string(password)
		}
		m.logger.Warn("masked password input failed", zap.Error(err))
	}
	return m.readLine()
}
