package models

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// SortOrder, sıralama yönü.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Query parametre adları — API ve web aynı isimleri kullanır,
// böylece web katmanı gelen query'yi API'ye olduğu gibi iletebilir.
const (
	ParamPage  = "page"
	ParamSize  = "size"
	ParamSort  = "sort"
	ParamOrder = "order"
	ParamQuery = "q"
)

const maxSearchQueryLength = 100

// PageOptions, bir listenin sayfalama varsayılanları ve izin verilen sıralama alanları.
type PageOptions struct {
	DefaultSize  int
	MaxSize      int
	SortFields   []string // Whitelist — SQL'e sadece bunlar girer
	DefaultSort  string
	DefaultOrder SortOrder
}

// PostPageOptions, pano yazı listesi için varsayılanlar.
var PostPageOptions = PageOptions{
	DefaultSize:  20,
	MaxSize:      100,
	SortFields:   PostSortFields,
	DefaultSort:  "created_at",
	DefaultOrder: SortDesc,
}

// UserSortFields, admin kullanıcı listesinde izin verilen sıralama alanları.
var UserSortFields = []string{"created_at", "username", "role"}

// UserPageOptions, admin kullanıcı listesi için varsayılanlar.
var UserPageOptions = PageOptions{
	DefaultSize:  20,
	MaxSize:      100,
	SortFields:   UserSortFields,
	DefaultSort:  "created_at",
	DefaultOrder: SortDesc,
}

// normalized, eksik alanları güvenli varsayılanlarla doldurur.
func (o PageOptions) normalized() PageOptions {
	if o.DefaultSize <= 0 {
		o.DefaultSize = 20
	}
	if o.MaxSize <= 0 {
		o.MaxSize = 100
	}
	if o.DefaultSize > o.MaxSize {
		o.DefaultSize = o.MaxSize
	}
	if o.DefaultSort == "" || !slices.Contains(o.SortFields, o.DefaultSort) {
		if len(o.SortFields) > 0 {
			o.DefaultSort = o.SortFields[0]
		} else {
			o.DefaultSort = "created_at"
			o.SortFields = []string{"created_at"}
		}
	}
	if o.DefaultOrder != SortAsc && o.DefaultOrder != SortDesc {
		o.DefaultOrder = SortDesc
	}
	return o
}

// PageRequest, doğrulanmış sayfalama/sıralama/arama parametreleri.
// Sort her zaman whitelist'ten gelir; repository bunu SQL'e güvenle koyabilir.
type PageRequest struct {
	Page  int
	Size  int
	Sort  string
	Order SortOrder
	Query string

	opts PageOptions
}

// ParsePageRequest, query parametrelerini okur.
// Geçersiz veya aralık dışı değerler hata üretmez — varsayılana düşer.
// Kullanıcı URL'i elle bozsa bile sayfa açılır.
func ParsePageRequest(q url.Values, opts PageOptions) PageRequest {
	opts = opts.normalized()

	req := PageRequest{
		Page:  1,
		Size:  opts.DefaultSize,
		Sort:  opts.DefaultSort,
		Order: opts.DefaultOrder,
		opts:  opts,
	}

	// Üst sınır: Offset() int32 aralığında kalır.
	if p, err := strconv.Atoi(q.Get(ParamPage)); err == nil && p > 0 {
		req.Page = min(p, math.MaxInt32/opts.MaxSize)
	}

	if s, err := strconv.Atoi(q.Get(ParamSize)); err == nil && s > 0 {
		req.Size = min(s, opts.MaxSize)
	}

	if sort := strings.TrimSpace(q.Get(ParamSort)); slices.Contains(opts.SortFields, sort) {
		req.Sort = sort
	}

	switch SortOrder(strings.ToLower(strings.TrimSpace(q.Get(ParamOrder)))) {
	case SortAsc:
		req.Order = SortAsc
	case SortDesc:
		req.Order = SortDesc
	}

	query := strings.TrimSpace(q.Get(ParamQuery))
	if utf8.RuneCountInString(query) > maxSearchQueryLength {
		query = string([]rune(query)[:maxSearchQueryLength])
	}
	req.Query = query

	return req
}

// Offset, SQL OFFSET değeri.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.Size
}

// Values, isteği kanonik query parametrelerine çevirir.
// Varsayılan değerler yazılmaz — linkler kısa ve cache-dostu kalır.
func (r PageRequest) Values() url.Values {
	opts := r.opts.normalized()
	v := url.Values{}
	if r.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(r.Page))
	}
	if r.Size > 0 && r.Size != opts.DefaultSize {
		v.Set(ParamSize, strconv.Itoa(r.Size))
	}
	if r.Sort != "" && r.Sort != opts.DefaultSort {
		v.Set(ParamSort, r.Sort)
	}
	if r.Order != "" && r.Order != opts.DefaultOrder {
		v.Set(ParamOrder, string(r.Order))
	}
	if r.Query != "" {
		v.Set(ParamQuery, r.Query)
	}
	return v
}

// With, tek bir parametresi değiştirilmiş query string'i döner ("?page=2&sort=title").
// Boş value parametreyi kaldırır. Sayfa dışındaki her değişiklik sayfayı 1'e döndürür —
// yeni sıralamada 7. sayfada kalmak anlamsız.
func (r PageRequest) With(key, value string) string {
	v := r.Values()
	if key != ParamPage {
		v.Del(ParamPage)
	}
	if value == "" {
		v.Del(key)
	} else {
		v.Set(key, value)
	}
	if key == ParamPage && value == "1" {
		v.Del(ParamPage)
	}
	return encodeQuery(v)
}

// PageLink, n. sayfanın query string'i.
func (r PageRequest) PageLink(n int) string {
	return r.With(ParamPage, strconv.Itoa(n))
}

// SortLink, bir sütun başlığına tıklandığında gidilecek query string.
// Aynı alana tekrar tıklamak yönü çevirir; yeni alan varsayılan yönle başlar.
func (r PageRequest) SortLink(field string) string {
	opts := r.opts.normalized()
	v := r.Values()
	v.Del(ParamPage)

	order := opts.DefaultOrder
	if field == r.Sort {
		if r.Order == SortAsc {
			order = SortDesc
		} else {
			order = SortAsc
		}
	}

	if field == opts.DefaultSort {
		v.Del(ParamSort)
	} else {
		v.Set(ParamSort, field)
	}
	if order == opts.DefaultOrder {
		v.Del(ParamOrder)
	} else {
		v.Set(ParamOrder, string(order))
	}
	return encodeQuery(v)
}

// IsSortedBy, liste şu an bu alana göre mi sıralı? (template'de ok işareti için)
func (r PageRequest) IsSortedBy(field string) bool {
	return r.Sort == field
}

func encodeQuery(v url.Values) string {
	if len(v) == 0 {
		return "?"
	}
	return "?" + v.Encode()
}

// Page, sayfalanmış liste yanıtı.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NewPage, toplam kayıt sayısından sayfa sayısını hesaplar.
// Items hiçbir zaman nil olmaz — JSON'da null yerine [] döner.
func NewPage[T any](items []T, req PageRequest, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if req.Size > 0 && total > 0 {
		totalPages = (total + req.Size - 1) / req.Size
	}
	return Page[T]{
		Items:      items,
		Page:       req.Page,
		Size:       req.Size,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

// HasPrev, önceki sayfa var mı?
func (p Page[T]) HasPrev() bool {
	return p.Page > 1
}

// HasNext, sonraki sayfa var mı?
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// PrevPage, önceki sayfa numarası (en az 1).
func (p Page[T]) PrevPage() int {
	return max(p.Page-1, 1)
}

// NextPage, sonraki sayfa numarası (en fazla TotalPages).
func (p Page[T]) NextPage() int {
	if p.TotalPages == 0 {
		return 1
	}
	return min(p.Page+1, p.TotalPages)
}

// Window, pager'da gösterilecek sayfa numaraları.
func (p Page[T]) Window(width int) []int {
	return PageWindow(p.Page, p.TotalPages, width)
}

// PageWindow, current etrafında ortalanmış, [1, total] aralığına sıkıştırılmış
// en fazla width elemanlı sayfa numarası listesi döner.
//
//	PageWindow(5, 10, 5)  → [3 4 5 6 7]
//	PageWindow(1, 10, 5)  → [1 2 3 4 5]
//	PageWindow(10, 10, 5) → [6 7 8 9 10]
func PageWindow(current, total, width int) []int {
	if total <= 0 {
		return nil
	}
	if width < 1 {
		width = 1
	}
	current = min(max(current, 1), total)

	start := current - width/2
	if start < 1 {
		start = 1
	}
	end := start + width - 1
	if end > total {
		end = total
		start = max(end-width+1, 1)
	}

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
