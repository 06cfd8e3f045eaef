package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const DefaultPage = 1

// PageParams hasil parse query ?page=&page_size= (alias per_page/limit).
type PageParams struct {
	Page     int
	PageSize int
}

// ParsePaging membaca paging dari query Fiber; clamp dilakukan lagi di engine,
// di sini cukup default yang masuk akal.
func ParsePaging(c *fiber.Ctx, defaultSize int) PageParams {
	page := atoiDefault(c.Query("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}
	raw := strings.TrimSpace(firstNonEmpty(c.Query("page_size"), c.Query("per_page"), c.Query("limit")))
	size := defaultSize
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		size = n
	}
	return PageParams{Page: page, PageSize: size}
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
