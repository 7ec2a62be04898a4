package repository

import (
	"fmt"
	"strings"

	"github.com/akinalp/pano/models"
)

// isUniqueViolation, SQLite UNIQUE constraint hatasını kontrol eder.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation, SQLite FOREIGN KEY constraint hatasını kontrol eder.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// orderBy, PageRequest'ten güvenli bir ORDER BY cümlesi üretir.
//
// columns: sort anahtarı → SQL ifadesi. Anahtar haritada yoksa ilk
// fallback kullanılır. Kullanıcı girdisi SQL'e asla doğrudan girmez;
// sadece haritadaki sabit ifadeler girer.
// tiebreak: eşit değerlerde sayfalar arası kararlı sıra için (ör: "p.id").
func orderBy(req models.PageRequest, columns map[string]string, fallback, tiebreak string) string {
	col, ok := columns[req.Sort]
	if !ok {
		col = columns[fallback]
	}

	dir := "DESC"
	if req.Order == models.SortAsc {
		dir = "ASC"
	}

	return fmt.Sprintf("ORDER BY %s %s, %s %s", col, dir, tiebreak, dir)
}

// likePattern, arama metnini LIKE kalıbına çevirir.
// %, _ ve \ karakterleri escape edilir — sorguda ESCAPE '\' kullanılmalı.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}
