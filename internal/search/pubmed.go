// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/litwatch/internal/httputil"
	"github.com/pdiddy/litwatch/pkg/types"
)

// NCBI E-utilities endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	pubmedSearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	pubmedFetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

const (
	pubmedTool       = "litwatch"
	pubmedFetchBatch = 200
)

// PubMedBackend queries PubMed through NCBI E-utilities: esearch for the
// matching PMIDs, then efetch for the records.
type PubMedBackend struct {
	Client *httputil.Client
}

// Name returns the backend identifier.
func (b *PubMedBackend) Name() string { return types.EnginePubMed }

// Search runs the query and returns the fetched records.
func (b *PubMedBackend) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Publication, error) {
	term := buildPubMedQuery(query)
	if term == "" {
		return nil, fmt.Errorf("empty PubMed query")
	}

	ids, available, err := b.esearch(ctx, term, maxResults(cfg), cfg)
	if err != nil {
		return nil, err
	}

	var results []types.Publication
	for start := 0; start < len(ids); start += pubmedFetchBatch {
		end := start + pubmedFetchBatch
		if end > len(ids) {
			end = len(ids)
		}
		batch, err := b.efetch(ctx, ids[start:end], cfg)
		if err != nil {
			return nil, err
		}
		results = append(results, batch...)
	}
	if available > len(ids) {
		return results, truncated(len(ids), available)
	}
	return results, nil
}

// esearch returns up to limit matching PMIDs and the total match count.
func (b *PubMedBackend) esearch(ctx context.Context, term string, limit int, cfg types.SearchConfig) ([]string, int, error) {
	params := b.params(cfg)
	params.Set("term", term)
	params.Set("retmax", strconv.Itoa(limit))
	params.Set("retmode", "json")

	resp, err := b.Client.Get(ctx, pubmedSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("PubMed esearch: %w", err)
	}
	defer resp.Body.Close()

	var sr pubmedSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, 0, fmt.Errorf("parsing PubMed esearch response: %w", err)
	}
	if sr.Result.Error != "" {
		return nil, 0, fmt.Errorf("PubMed esearch: %s", sr.Result.Error)
	}
	count, _ := strconv.Atoi(sr.Result.Count)
	return sr.Result.IDList, count, nil
}

func (b *PubMedBackend) efetch(ctx context.Context, ids []string, cfg types.SearchConfig) ([]types.Publication, error) {
	params := b.params(cfg)
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")

	resp, err := b.Client.Get(ctx, pubmedFetchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("PubMed efetch: %w", err)
	}
	defer resp.Body.Close()

	var set pubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing PubMed efetch response: %w", err)
	}

	results := make([]types.Publication, 0, len(set.Articles))
	for _, a := range set.Articles {
		results = append(results, a.publication())
	}
	return results, nil
}

func (b *PubMedBackend) params(cfg types.SearchConfig) url.Values {
	params := url.Values{
		"db":   {"pubmed"},
		"tool": {pubmedTool},
	}
	if cfg.Email != "" {
		params.Set("email", cfg.Email)
	}
	if cfg.NCBIAPIKey != "" {
		params.Set("api_key", cfg.NCBIAPIKey)
	}
	return params
}

// buildPubMedQuery builds the esearch term: a creation-date range followed
// by the facet clause. Author names lose their comma, since PubMed expects
// "Doudna Jennifer".
func buildPubMedQuery(q Query) string {
	term := strings.TrimSpace(q.Term)
	if term == "" {
		return ""
	}

	var clause string
	switch q.Kind {
	case types.FacetJournal:
		clause = fmt.Sprintf("(%s[Journal])", term)
	case types.FacetAuthor:
		clause = fmt.Sprintf("(%s[Author])", strings.Join(strings.Fields(strings.ReplaceAll(term, ",", " ")), " "))
	default:
		clause = "(" + term + ")"
	}

	if q.DateFrom.IsZero() {
		return clause
	}
	to := "3000"
	if !q.DateTo.IsZero() {
		to = q.DateTo.Format("2006/01/02")
	}
	return fmt.Sprintf(`(("%s"[Date - Create] : "%s"[Date - Create])) AND %s`, q.DateFrom.Format("2006/01/02"), to, clause)
}

// E-utilities JSON and XML structures.
type pubmedSearchResponse struct {
	Result struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
		Error  string   `json:"ERROR"`
	} `json:"esearchresult"`
}

type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	PMID       string            `xml:"MedlineCitation>PMID"`
	Article    pubmedArticleBody `xml:"MedlineCitation>Article"`
	ArticleIDs []pubmedTypedID   `xml:"PubmedData>ArticleIdList>ArticleId"`
}

type pubmedArticleBody struct {
	JournalTitle string               `xml:"Journal>Title"`
	PubDate      pubmedDate           `xml:"Journal>JournalIssue>PubDate"`
	Title        markup               `xml:"ArticleTitle"`
	Abstract     []pubmedAbstractText `xml:"Abstract>AbstractText"`
	Authors      []pubmedAuthor       `xml:"AuthorList>Author"`
	ELocationIDs []pubmedELocation    `xml:"ELocationID"`
	ArticleDates []pubmedDate         `xml:"ArticleDate"`
}

type markup struct {
	Inner string `xml:",innerxml"`
}

type pubmedAbstractText struct {
	Label string `xml:"Label,attr"`
	Inner string `xml:",innerxml"`
}

type pubmedAuthor struct {
	LastName       string `xml:"LastName"`
	ForeName       string `xml:"ForeName"`
	Initials       string `xml:"Initials"`
	CollectiveName string `xml:"CollectiveName"`
}

type pubmedDate struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	Day         string `xml:"Day"`
	MedlineDate string `xml:"MedlineDate"`
}

type pubmedTypedID struct {
	IDType string `xml:"IdType,attr"`
	Value  string `xml:",chardata"`
}

type pubmedELocation struct {
	Type  string `xml:"EIdType,attr"`
	Value string `xml:",chardata"`
}

func (a pubmedArticle) publication() types.Publication {
	p := types.Publication{
		PMID:    strings.TrimSpace(a.PMID),
		Title:   plainText(a.Article.Title.Inner),
		Journal: strings.TrimSpace(a.Article.JournalTitle),
		Source:  types.EnginePubMed,
	}
	if p.PMID != "" {
		p.URL = "https://pubmed.ncbi.nlm.nih.gov/" + p.PMID + "/"
	}

	for _, id := range a.ArticleIDs {
		if id.IDType == "doi" && p.DOI == "" {
			p.DOI = types.NormalizeDOI(id.Value)
		}
	}
	for _, loc := range a.Article.ELocationIDs {
		if loc.Type == "doi" && p.DOI == "" {
			p.DOI = types.NormalizeDOI(loc.Value)
		}
	}

	var sections []string
	for _, s := range a.Article.Abstract {
		text := plainText(s.Inner)
		if text == "" {
			continue
		}
		if s.Label != "" {
			text = s.Label + ": " + text
		}
		sections = append(sections, text)
	}
	p.Abstract = strings.Join(sections, " ")

	for _, au := range a.Article.Authors {
		if name := au.name(); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}

	p.Date = a.Article.PubDate.parse()
	if p.Date.IsZero() {
		for _, d := range a.Article.ArticleDates {
			if parsed := d.parse(); !parsed.IsZero() {
				p.Date = parsed
				break
			}
		}
	}
	return p
}

func (au pubmedAuthor) name() string {
	if au.CollectiveName != "" {
		return strings.TrimSpace(au.CollectiveName)
	}
	last := strings.TrimSpace(au.LastName)
	first := strings.TrimSpace(au.ForeName)
	if first == "" {
		first = strings.TrimSpace(au.Initials)
	}
	switch {
	case last == "":
		return first
	case first == "":
		return last
	}
	return last + ", " + first
}

// parse reads Year/Month/Day, falling back to MedlineDate ("2023 Nov-Dec").
func (d pubmedDate) parse() types.PubDate {
	year, _ := strconv.Atoi(strings.TrimSpace(d.Year))
	month := parseMonth(d.Month)
	day, _ := strconv.Atoi(strings.TrimSpace(d.Day))

	if year == 0 && d.MedlineDate != "" {
		fields := strings.Fields(d.MedlineDate)
		if len(fields) > 0 && len(fields[0]) >= 4 {
			year, _ = strconv.Atoi(fields[0][:4])
		}
		if len(fields) > 1 {
			month = parseMonth(strings.SplitN(fields[1], "-", 2)[0])
		}
		day = 0
	}
	if year == 0 {
		return types.PubDate{}
	}
	if month == 0 {
		day = 0
	}
	return types.PubDate{Year: year, Month: month, Day: day}
}

// parseMonth accepts "03", "3", "Mar" or "March".
func parseMonth(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return n
		}
		return 0
	}
	if len(s) >= 3 {
		if t, err := time.Parse("Jan", strings.ToUpper(s[:1])+strings.ToLower(s[1:3])); err == nil {
			return int(t.Month())
		}
	}
	return 0
}
