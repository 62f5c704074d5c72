package browser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ErrNotFound means no element matched before the wait ran out.
var ErrNotFound = errors.New("element not found")

// Page is the slice of browser behaviour the checkout flow relies on.
type Page interface {
	// Goto waits for DOMContentLoaded only.
	Goto(url string, timeout time.Duration) error
	// ClickFirst waits up to timeout for any of selectors and clicks the first match.
	ClickFirst(selectors []string, timeout time.Duration) error
	// Query returns nil and no error when nothing matches.
	Query(selector string) (Element, error)
	QueryAll(selector string) ([]Element, error)
	BodyText() (string, error)
	Wait(d time.Duration)
}

type Element interface {
	InnerText() (string, error)
	Click() error
	// Clear selects the current value and removes it.
	Clear() error
	Type(text string, delay time.Duration) error
}

type playwrightPage struct {
	page playwright.Page
}

func (p *playwrightPage) Goto(url string, timeout time.Duration) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	return err
}

func (p *playwrightPage) ClickFirst(selectors []string, timeout time.Duration) error {
	loc := p.page.Locator(strings.Join(selectors, ", ")).First()
	err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return fmt.Errorf("%w: %v", ErrNotFound, selectors)
		}
		return err
	}
	return loc.Click()
}

func (p *playwrightPage) Query(selector string) (Element, error) {
	h, err := p.page.QuerySelector(selector)
	if err != nil || h == nil {
		return nil, err
	}
	return &playwrightElement{handle: h}, nil
}

func (p *playwrightPage) QueryAll(selector string) ([]Element, error) {
	handles, err := p.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	elements := make([]Element, 0, len(handles))
	for _, h := range handles {
		elements = append(elements, &playwrightElement{handle: h})
	}
	return elements, nil
}

func (p *playwrightPage) BodyText() (string, error) {
	return p.page.InnerText("body")
}

func (p *playwrightPage) Wait(d time.Duration) {
	p.page.WaitForTimeout(float64(d.Milliseconds()))
}

type playwrightElement struct {
	handle playwright.ElementHandle
}

func (e *playwrightElement) InnerText() (string, error) {
	return e.handle.InnerText()
}

func (e *playwrightElement) Click() error {
	return e.handle.Click()
}

func (e *playwrightElement) Clear() error {
	if err := e.handle.Click(playwright.ElementHandleClickOptions{ClickCount: playwright.Int(3)}); err != nil {
		return err
	}
	return e.handle.Fill("")
}

func (e *playwrightElement) Type(text string, delay time.Duration) error {
	return e.handle.Type(text, playwright.ElementHandleTypeOptions{
		Delay: playwright.Float(float64(delay.Milliseconds())),
	})
}
