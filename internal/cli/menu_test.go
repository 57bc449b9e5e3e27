package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pmarczak/zloty-bank-go/internal/bank"
	"github.com/pmarczak/zloty-bank-go/internal/cli"
	"github.com/pmarczak/zloty-bank-go/internal/domain"
	"github.com/pmarczak/zloty-bank-go/internal/infra/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func runSession(t *testing.T, b *bank.Bank, lines ...string) string {
	t.Helper()
	input := strings.Join(lines, "\n") + "\n"

	var output bytes.Buffer
	menu := cli.NewMenu(b, strings.NewReader(input), &output, zap.NewNop())
	require.NoError(t, menu.Run(context.Background()))
	return output.String()
}

func newBank(t *testing.T) *bank.Bank {
	t.Helper()
	b, err := bank.New(t.TempDir(), observability.NewMetrics(), zap.NewNop())
	require.NoError(t, err)
	return b
}

func TestMenu_RegisterAndLogin(t *testing.T) {
	b := newBank(t)

	output := runSession(t, b,
		"r",
		"Jan", "Kowalski", "90010112345", "jankow", "s3cret",
		"l",
		"jankow", "s3cret",
		"x", // leave main view
		"x", // leave entry view
	)

	assert.Contains(t, output, "Registered successfully")
	assert.Contains(t, output, "Logged in as jankow")

	_, found := b.Clients().ByLogin("jankow")
	assert.True(t, found)
}

func TestMenu_WrongPassword(t *testing.T) {
	b := newBank(t)
	_, err := b.Register(context.Background(), "Jan", "Kowalski", "90010112345", "jankow", "s3cret")
	require.NoError(t, err)

	output := runSession(t, b,
		"l",
		"jankow", "wrong",
		"x",
	)

	assert.Contains(t, output, "not correct")
	assert.NotContains(t, output, "Logged in")
}

func TestMenu_OpenAccount(t *testing.T) {
	b := newBank(t)

	output := runSession(t, b,
		"r",
		"Jan", "Kowalski", "90010112345", "jankow", "s3cret",
		"l",
		"jankow", "s3cret",
		"k", "c", // open a savings account
		"i", // list accounts
		"x",
		"x",
	)

	assert.Contains(t, output, "Account created successfully")
	assert.Contains(t, output, "Savings account")

	client, found := b.Clients().ByLogin("jankow")
	require.True(t, found)
	accounts := b.Accounts().Owned(client.PersonalID())
	require.Len(t, accounts, 1)
	assert.Equal(t, domain.AccountSavings, accounts[0].Type())
}

func TestMenu_ChangePassword(t *testing.T) {
	b := newBank(t)

	runSession(t, b,
		"r",
		"Jan", "Kowalski", "90010112345", "jankow", "s3cret",
		"l",
		"jankow", "s3cret",
		"h", "s3cret", "brand-new",
		"x",
		"x",
	)

	ctx := context.Background()
	_, err := b.Login(ctx, "jankow", "brand-new")
	assert.NoError(t, err)
}

func TestMenu_TransferBetweenOwnAccounts(t *testing.T) {
	b := newBank(t)
	ctx := context.Background()

	client, err := b.Register(ctx, "Jan", "Kowalski", "90010112345", "jankow", "s3cret")
	require.NoError(t, err)
	from, err := b.OpenAccount(ctx, client, domain.AccountMain)
	require.NoError(t, err)
	to, err := b.OpenAccount(ctx, client, domain.AccountMain)
	require.NoError(t, err)
	from.SetBalance(domain.NewAmount(500, 0))

	output := runSession(t, b,
		"l",
		"jankow", "s3cret",
		"f",
		from.Number(),
		to.Number(),
		"120,50",
		"x",
		"x",
	)

	assert.Contains(t, output, "Transfer executed")
	assert.Equal(t, "379,50 zl", from.Balance().String())
	assert.Equal(t, "120,50 zl", to.Balance().String())
}

func TestMenu_TransferFromForeignAccountRejected(t *testing.T) {
	b := newBank(t)
	ctx := context.Background()

	owner, err := b.Register(ctx, "Anna", "Nowak", "85050554321", "annano", "pw")
	require.NoError(t, err)
	foreign, err := b.OpenAccount(ctx, owner, domain.AccountMain)
	require.NoError(t, err)

	_, err = b.Register(ctx, "Jan", "Kowalski", "90010112345", "jankow", "s3cret")
	require.NoError(t, err)

	output := runSession(t, b,
		"l",
		"jankow", "s3cret",
		"f",
		foreign.Number(),
		"x",
		"x",
	)

	assert.Contains(t, output, "Cannot use this account")
}

func TestMenu_ExitImmediately(t *testing.T) {
	b := newBank(t)
	output := runSession(t, b, "x")
	assert.Contains(t, output, "Press r to register an account")
}
