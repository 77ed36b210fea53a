// Package cli runs the interactive terminal till.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-teller/internal/catalog"
	"github.com/noah-isme/backend-teller/internal/checkout"
	"github.com/noah-isme/backend-teller/internal/offer"
)

const menu = `
Options:
1. Add product to catalog
2. Add item to cart
3. Apply special offer
4. Checkout and print receipt
5. Quit
`

// Config wires the terminal to a session and its streams.
type Config struct {
	Session *checkout.Session
	In      io.Reader
	Out     io.Writer
	Logger  *zerolog.Logger
}

// CLI is a menu loop over one checkout session.
type CLI struct {
	session *checkout.Session
	in      io.Reader
	out     io.Writer
	logger  zerolog.Logger
	lines   chan line
}

type line struct {
	text string
	err  error
}

// New validates cfg and builds a CLI.
func New(cfg Config) (*CLI, error) {
	if cfg.Session == nil {
		return nil, errors.New("cli: session is required")
	}
	if cfg.In == nil || cfg.Out == nil {
		return nil, errors.New("cli: input and output are required")
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &CLI{
		session: cfg.Session,
		in:      cfg.In,
		out:     cfg.Out,
		logger:  logger,
	}, nil
}

// Run serves the menu until the user quits, input ends or ctx is cancelled.
// Cancellation interrupts a pending prompt. Run must not be called twice.
func (c *CLI) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.lines = make(chan line)
	go c.read(ctx)

	c.println("\n=== Supermarket CLI Teller ===")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.printf("%s", menu)
		choice, err := c.prompt(ctx, "Select an option: ")
		if err != nil {
			return endOfInput(err)
		}
		switch choice {
		case "1":
			err = c.addProduct(ctx)
		case "2":
			err = c.addItem(ctx)
		case "3":
			err = c.applyOffer(ctx)
		case "4":
			c.checkout(ctx)
		case "5":
			c.println("Goodbye!")
			return nil
		default:
			c.println("Invalid option. Try again.")
		}
		if err != nil {
			return endOfInput(err)
		}
	}
}

func (c *CLI) addProduct(ctx context.Context) error {
	name, err := c.promptName(ctx, "Product name: ")
	if err != nil {
		return err
	}
	unit, err := c.promptUnit(ctx)
	if err != nil {
		return err
	}
	price, err := c.promptFloat(ctx, "Price: ")
	if err != nil {
		return err
	}
	if _, err := c.session.AddProduct(ctx, name, unit, price); err != nil {
		c.printf("Could not add product: %v\n", err)
		return nil
	}
	c.printf("Added '%s' to catalog.\n", name)
	return nil
}

func (c *CLI) addItem(ctx context.Context) error {
	name, err := c.promptName(ctx, "Product name (must exist in catalog): ")
	if err != nil {
		return err
	}
	if _, err := c.session.Catalog().Lookup(name); err != nil {
		c.println("Product not found in catalog.")
		return nil
	}
	quantity, err := c.promptFloat(ctx, "Quantity: ")
	if err != nil {
		return err
	}
	if _, err := c.session.AddItem(name, quantity); err != nil {
		c.printf("Could not add item: %v\n", err)
		return nil
	}
	c.printf("Added %s of '%s' to cart.\n", strconv.FormatFloat(quantity, 'f', -1, 64), name)
	return nil
}

func (c *CLI) applyOffer(ctx context.Context) error {
	name, err := c.promptName(ctx, "Product name to discount: ")
	if err != nil {
		return err
	}
	if _, err := c.session.Catalog().Lookup(name); err != nil {
		c.println("Product not found in catalog.")
		return nil
	}
	typ, err := c.promptOfferType(ctx)
	if err != nil {
		return err
	}
	var argument float64
	if typ != offer.TypeThreeForTwo {
		if argument, err = c.promptFloat(ctx, "Enter discount argument (e.g. percent or amount): "); err != nil {
			return err
		}
	}
	if err := c.session.RegisterOffer(ctx, name, typ, argument); err != nil {
		c.printf("Could not apply offer: %v\n", err)
		return nil
	}
	c.printf("Offer applied on '%s'.\n", name)
	return nil
}

func (c *CLI) checkout(ctx context.Context) {
	result, err := c.session.Checkout(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("checkout failed")
		c.printf("Checkout failed: %v\n", err)
		return
	}
	c.println("\nReceipt:")
	c.println(result.Text)
}

// read feeds input lines to prompt until input ends or ctx is done.
func (c *CLI) read(ctx context.Context) {
	scanner := bufio.NewScanner(c.in)
	for {
		next := line{err: io.EOF}
		if scanner.Scan() {
			next = line{text: scanner.Text()}
		} else if err := scanner.Err(); err != nil {
			next.err = err
		}
		select {
		case c.lines <- next:
		case <-ctx.Done():
			return
		}
		if next.err != nil {
			return
		}
	}
}

func (c *CLI) prompt(ctx context.Context, label string) (string, error) {
	c.printf("%s", label)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case next := <-c.lines:
		if next.err != nil {
			return "", next.err
		}
		return strings.TrimSpace(next.text), nil
	}
}

func (c *CLI) promptName(ctx context.Context, label string) (string, error) {
	for {
		name, err := c.prompt(ctx, label)
		if err != nil {
			return "", err
		}
		if name != "" {
			return name, nil
		}
		c.println("Name cannot be empty. Try again.")
	}
}

func (c *CLI) promptUnit(ctx context.Context) (catalog.Unit, error) {
	for {
		value, err := c.prompt(ctx, "Enter unit (each/kilo): ")
		if err != nil {
			return "", err
		}
		unit, err := catalog.ParseUnit(value)
		if err == nil {
			return unit, nil
		}
		c.println("Invalid unit. Try again.")
	}
}

func (c *CLI) promptFloat(ctx context.Context, label string) (float64, error) {
	for {
		value, err := c.prompt(ctx, label)
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f, nil
		}
		c.println("Invalid number. Try again.")
	}
}

func (c *CLI) promptOfferType(ctx context.Context) (offer.Type, error) {
	types := offer.Types()
	c.println("Choose offer type:")
	for i, t := range types {
		c.printf("%d. %s\n", i+1, t)
	}
	for {
		value, err := c.prompt(ctx, "Enter offer number: ")
		if err != nil {
			return "", err
		}
		n, err := strconv.Atoi(value)
		if err == nil && n >= 1 && n <= len(types) {
			return types[n-1], nil
		}
		c.println("Invalid selection. Try again.")
	}
}

func (c *CLI) println(s string) {
	_, _ = fmt.Fprintln(c.out, s)
}

func (c *CLI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
