package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"esecure-analyze-go/internal/utils"
)

type fakePageFetcher struct {
	pages map[string]string
	err   error
}

func (f *fakePageFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	html, ok := f.pages[rawURL]
	if !ok {
		return nil, fmt.Errorf("%w: 404", ErrFetchStatus)
	}
	return &Page{URL: rawURL, FinalURL: rawURL, HTML: html}, nil
}

func paragraph(word string, n int) string {
	return strings.TrimSpace(strings.Repeat(word+" ", n))
}

func TestExtractArticleWinsOverMain(t *testing.T) {
	articleText := "These terms govern your use of the service. " + paragraph("clause", 80)
	mainText := "Privacy policy for the main section. " + paragraph("main", 120)
	html := fmt.Sprintf(`<html><head><title>Terms</title></head><body>
<nav>Home About</nav>
<main><p>%s</p></main>
<article><h1>Terms</h1><p>%s</p></article>
</body></html>`, mainText, articleText)

	e := NewTermsExtractor(nil, 0)
	doc, err := e.Extract(&Page{URL: "https://example.com/terms", HTML: html})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.Selector != "article" {
		t.Errorf("Selector = %q, want article", doc.Selector)
	}
	want := "Terms " + articleText
	if doc.Text != want {
		t.Errorf("Text = %q, want %q", utils.Excerpt(doc.Text, 80), utils.Excerpt(want, 80))
	}
}

func TestExtractShortArticleFallsThrough(t *testing.T) {
	html := fmt.Sprintf(`<html><body>
<article>Terms teaser</article>
<main><p>Privacy policy. %s</p></main>
</body></html>`, paragraph("data", 100))

	doc, err := NewTermsExtractor(nil, 0).Extract(&Page{URL: "https://example.com", HTML: html})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.Selector != "main" {
		t.Errorf("Selector = %q, want main", doc.Selector)
	}
}

func TestExtractClassSelector(t *testing.T) {
	html := fmt.Sprintf(`<html><body>
<div class="header">Shop</div>
<div class="privacy-policy"><p>We collect data. %s</p></div>
</body></html>`, paragraph("privacy", 70))

	doc, err := NewTermsExtractor(nil, 0).Extract(&Page{URL: "https://example.com", HTML: html})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.Selector != ".privacy-policy" {
		t.Errorf("Selector = %q, want .privacy-policy", doc.Selector)
	}
	if strings.Contains(doc.Text, "Shop") {
		t.Error("header text should not be part of the selected element")
	}
}

func TestExtractFallbackToDocument(t *testing.T) {
	html := `<html><body><p>Short terms and conditions.</p></body></html>`

	doc, err := NewTermsExtractor(nil, 0).Extract(&Page{URL: "https://example.com", HTML: html})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.Selector != "document" {
		t.Errorf("Selector = %q, want document", doc.Selector)
	}
	if doc.Text != "Short terms and conditions." {
		t.Errorf("Text = %q", doc.Text)
	}
}

func TestExtractRejectsNonPolicyPage(t *testing.T) {
	html := fmt.Sprintf(`<html><body><article>%s</article></body></html>`, paragraph("recipe", 300))

	_, err := NewTermsExtractor(nil, 0).Extract(&Page{URL: "https://example.com/empty", HTML: html})
	if !errors.Is(err, ErrNotPolicyPage) {
		t.Errorf("err = %v, want ErrNotPolicyPage", err)
	}
}

func TestExtractContentType(t *testing.T) {
	html := fmt.Sprintf(`<html><body><article>Terms of Service. %s</article></body></html>`, paragraph("clause", 200))

	testCases := []struct {
		contentType string
		accepted    bool
	}{
		{"", true},
		{"text/html; charset=utf-8", true},
		{"TEXT/HTML", true},
		{"application/xhtml+xml", true},
		{"text/plain", true},
		{"application/pdf", false},
		{"image/png", false},
		{"application/json", false},
		{";;;", false},
	}

	for _, tc := range testCases {
		page := &Page{URL: "https://example.com/terms", HTML: html, ContentType: tc.contentType}
		_, err := NewTermsExtractor(nil, 0).Extract(page)
		if tc.accepted && err != nil {
			t.Errorf("Content-Type %q: unexpected error %v", tc.contentType, err)
		}
		if !tc.accepted && !errors.Is(err, ErrUnsupportedContent) {
			t.Errorf("Content-Type %q: err = %v, want ErrUnsupportedContent", tc.contentType, err)
		}
	}
}

func TestExtractIgnoresScriptText(t *testing.T) {
	html := `<html><head><script>var policy = "terms";</script></head>
<body><script>window.privacy = true;</script><p>Welcome to our bakery.</p></body></html>`

	_, err := NewTermsExtractor(nil, 0).Extract(&Page{URL: "https://example.com", HTML: html})
	if !errors.Is(err, ErrNotPolicyPage) {
		t.Errorf("keywords inside scripts must not count, err = %v", err)
	}
}

func TestExtractTruncates(t *testing.T) {
	html := fmt.Sprintf(`<html><body><article>Terms %s</article></body></html>`, paragraph("word", 5000))

	doc, err := NewTermsExtractor(nil, 1000).Extract(&Page{URL: "https://example.com", HTML: html})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := utils.RuneLen(doc.Text); got != 1000 {
		t.Errorf("len(Text) = %d, want 1000", got)
	}
}

func TestExtractTitle(t *testing.T) {
	html := fmt.Sprintf(`<html><head><title>Acme Terms of Service</title></head>
<body><article><h1>Acme Terms of Service</h1><p>%s</p></article></body></html>`, paragraph("terms", 200))

	doc, err := NewTermsExtractor(nil, 0).Extract(&Page{URL: "https://acme.example/tos", FinalURL: "https://acme.example/tos", HTML: html})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(doc.Title, "Acme") {
		t.Errorf("Title = %q, want it to mention Acme", doc.Title)
	}
}

func TestExtractURL(t *testing.T) {
	f := &fakePageFetcher{pages: map[string]string{
		"https://example.com/privacy": fmt.Sprintf(`<html><body><main>Privacy %s</main></body></html>`, paragraph("data", 100)),
	}}
	e := NewTermsExtractor(f, 0)

	doc, err := e.ExtractURL(context.Background(), "https://example.com/privacy")
	if err != nil {
		t.Fatalf("ExtractURL: %v", err)
	}
	if doc.URL != "https://example.com/privacy" {
		t.Errorf("URL = %q", doc.URL)
	}

	if _, err := e.ExtractURL(context.Background(), "https://example.com/missing"); !errors.Is(err, ErrFetchStatus) {
		t.Errorf("missing page err = %v, want ErrFetchStatus", err)
	}
}

func TestVisibleTextSeparatesBlocks(t *testing.T) {
	html := `<html><body><div id="x"><p>One</p><p>Two</p><!-- hidden --><span>Three</span></div></body></html>`
	doc, err := NewTermsExtractor(nil, 0).Extract(&Page{URL: "https://example.com", HTML: html + "<p>terms</p>"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.Text != "One Two Three terms" {
		t.Errorf("Text = %q, want %q", doc.Text, "One Two Three terms")
	}
}
