package cli_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-teller/internal/catalog"
	"github.com/noah-isme/backend-teller/internal/checkout"
	"github.com/noah-isme/backend-teller/internal/cli"
	"github.com/noah-isme/backend-teller/internal/teller"
)

func newSession(t *testing.T) *checkout.Session {
	t.Helper()
	cat := catalog.New()
	tl, err := teller.New(teller.Config{Catalog: cat})
	require.NoError(t, err)
	s, err := checkout.NewSession(checkout.SessionConfig{Catalog: cat, Teller: tl})
	require.NoError(t, err)
	return s
}

func run(t *testing.T, s *checkout.Session, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	c, err := cli.New(cli.Config{
		Session: s,
		In:      strings.NewReader(strings.Join(lines, "\n") + "\n"),
		Out:     &out,
	})
	require.NoError(t, err)
	require.NoError(t, c.Run(context.Background()))
	return out.String()
}

func row(left, right string) string {
	return left + strings.Repeat(" ", 40-len(left)-len(right)) + right + "\n"
}

func TestNewRequiresSessionAndStreams(t *testing.T) {
	_, err := cli.New(cli.Config{})
	require.Error(t, err)
	_, err = cli.New(cli.Config{Session: newSession(t)})
	require.Error(t, err)
}

func TestScriptedCheckout(t *testing.T) {
	s := newSession(t)
	out := run(t, s,
		"1", "toothbrush", "each", "0.99",
		"2", "toothbrush", "3",
		"3", "toothbrush", "1",
		"4",
		"5",
	)

	require.Contains(t, out, "Added 'toothbrush' to catalog.")
	require.Contains(t, out, "Added 3 of 'toothbrush' to cart.")
	require.Contains(t, out, "Offer applied on 'toothbrush'.")

	want := "\nReceipt:\n" +
		row("toothbrush", "2.97") +
		"  0.99 * 3\n" +
		row("3 for 2 (toothbrush)", "-0.99") +
		"\n" +
		row("Total:", "1.98")
	require.Contains(t, out, want)
	require.True(t, strings.HasSuffix(out, "Goodbye!\n"))
	require.Empty(t, s.Cart().Lines)
}

func TestInvalidInputRePrompts(t *testing.T) {
	out := run(t, newSession(t),
		"9",
		"1", "", "apples", "litre", "kilo", "cheap", "1.99",
		"3", "apples", "0", "7", "4", "20",
		"5",
	)
	require.Contains(t, out, "Invalid option. Try again.")
	require.Contains(t, out, "Name cannot be empty. Try again.")
	require.Contains(t, out, "Invalid unit. Try again.")
	require.Contains(t, out, "Invalid number. Try again.")
	require.Contains(t, out, "Invalid selection. Try again.")
	require.Contains(t, out, "Offer applied on 'apples'.")
}

func TestUnknownProductReturnsToMenu(t *testing.T) {
	out := run(t, newSession(t),
		"2", "caviar",
		"3", "caviar",
		"5",
	)
	require.Equal(t, 2, strings.Count(out, "Product not found in catalog."))
}

func TestDomainErrorsAreReported(t *testing.T) {
	s := newSession(t)
	out := run(t, s,
		"1", "rice", "each", "2.49",
		"1", "rice", "each", "3.00",
		"2", "rice", "-1",
		"3", "rice", "4", "150",
		"5",
	)
	require.Contains(t, out, "Could not add product:")
	require.Contains(t, out, "Could not add item:")
	require.Contains(t, out, "Could not apply offer:")
	require.Empty(t, s.Cart().Lines)
}

func TestEmptyCheckoutPrintsZeroTotal(t *testing.T) {
	out := run(t, newSession(t), "4", "5")
	require.Contains(t, out, "Receipt:\n\n"+row("Total:", "0.00"))
}

func TestEndOfInputStopsQuietly(t *testing.T) {
	out := run(t, newSession(t), "1", "rice")
	require.NotContains(t, out, "Goodbye!")
}

func TestRunHonoursCancellation(t *testing.T) {
	c, err := cli.New(cli.Config{Session: newSession(t), In: strings.NewReader("5\n"), Out: &bytes.Buffer{}})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, c.Run(ctx), context.Canceled)
}

func TestCancellationInterruptsPendingPrompt(t *testing.T) {
	in, feed := io.Pipe()
	t.Cleanup(func() { _ = feed.Close() })
	c, err := cli.New(cli.Config{Session: newSession(t), In: in, Out: &bytes.Buffer{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	_, err = io.WriteString(feed, "1\n")
	require.NoError(t, err)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run kept waiting for input after cancellation")
	}
}

func TestSeedSkipsExistingProducts(t *testing.T) {
	cat := catalog.New()
	require.NoError(t, cat.Add(catalog.NewProduct("rice", catalog.UnitEach), 3.10))

	added, err := cli.Seed(cat)
	require.NoError(t, err)
	require.Equal(t, len(cli.DemoCatalog)-1, added)
	require.Equal(t, len(cli.DemoCatalog), cat.Len())

	rice, err := cat.Lookup("rice")
	require.NoError(t, err)
	price, err := cat.UnitPrice(rice)
	require.NoError(t, err)
	require.Equal(t, 3.10, price)
}
