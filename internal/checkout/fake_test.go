package checkout

import (
	"errors"
	"fmt"
	"time"

	"github.com/maltedev/coupon-finder/internal/browser"
)

type fakeElement struct {
	page     *fakePage
	text     string
	textErr  error
	clickErr error
	clicks   int
	cleared  bool
	typed    string
	delay    time.Duration
	// body the page shows after this field was submitted
	body string
}

func (e *fakeElement) InnerText() (string, error) { return e.text, e.textErr }

func (e *fakeElement) Click() error {
	e.clicks++
	return e.clickErr
}

func (e *fakeElement) Clear() error {
	e.cleared = true
	e.typed = ""
	return nil
}

func (e *fakeElement) Type(text string, delay time.Duration) error {
	e.typed += text
	e.delay = delay
	if e.page != nil {
		e.page.lastTyped = e
	}
	return nil
}

type fakePage struct {
	gotoErr    map[string]error
	visited    []string
	timeouts   []time.Duration
	clickFirst map[string]error
	clicked    [][]string
	elements   map[string]*fakeElement
	queryErr   map[string]error
	all        []browser.Element
	allErr     error
	body       string
	bodyErr    error
	waits      []time.Duration
	lastTyped  *fakeElement
}

func newFakePage() *fakePage {
	return &fakePage{
		gotoErr:    map[string]error{},
		clickFirst: map[string]error{},
		elements:   map[string]*fakeElement{},
		queryErr:   map[string]error{},
	}
}

func (p *fakePage) Goto(url string, timeout time.Duration) error {
	p.visited = append(p.visited, url)
	p.timeouts = append(p.timeouts, timeout)
	return p.gotoErr[url]
}

func (p *fakePage) ClickFirst(selectors []string, timeout time.Duration) error {
	p.clicked = append(p.clicked, selectors)
	p.timeouts = append(p.timeouts, timeout)
	if err, ok := p.clickFirst[selectors[0]]; ok {
		return err
	}
	return fmt.Errorf("%w: %v", browser.ErrNotFound, selectors)
}

func (p *fakePage) Query(selector string) (browser.Element, error) {
	if err := p.queryErr[selector]; err != nil {
		return nil, err
	}
	el, ok := p.elements[selector]
	if !ok {
		return nil, nil
	}
	el.page = p
	return el, nil
}

func (p *fakePage) QueryAll(string) ([]browser.Element, error) {
	return p.all, p.allErr
}

func (p *fakePage) BodyText() (string, error) {
	if p.bodyErr != nil {
		return "", p.bodyErr
	}
	if p.lastTyped != nil && p.lastTyped.body != "" {
		return p.lastTyped.body, nil
	}
	return p.body, nil
}

func (p *fakePage) Wait(d time.Duration) {
	p.waits = append(p.waits, d)
}

var errFlaky = errors.New("element detached")
