// Package order parses console order lines.
//
// A line holds one or more clauses separated by ';':
//
//	TYPE SIZE xQUANTITY [; TYPE SIZE xQUANTITY]*
//
// TYPE is matched case-insensitively, SIZE is one of S M L XL XXL in upper
// case and QUANTITY is an integer in [1, 99].  Anything after '#' is ignored.
package order

import (
	"strconv"
	"strings"

	"github.com/viant/brigade/model"
	"github.com/viant/parsly"
)

// Example is a well formed order line
const Example = "regina XXL x2; fantasia M x3; margarita S x1"

// Format describes the order line grammar
const Format = "TYPE SIZE xQUANTITY [; TYPE SIZE xQUANTITY]*"

// Parse parses an order line. An empty or comment-only line yields no order.
// Either every clause is valid or no order is returned.
func Parse(line string) ([]*model.Order, error) {
	text := line
	if index := strings.IndexByte(text, '#'); index != -1 {
		text = text[:index]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	cursor := parsly.NewCursor("", []byte(text), 0)
	var orders []*model.Order
	for {
		clause, err := parseClause(cursor)
		if err != nil {
			return nil, model.NewError(model.ErrorKindParse, "order", err)
		}
		orders = append(orders, clause)

		cursor.MatchOne(whitespaceToken)
		if !cursor.HasMore() {
			return orders, nil
		}
		if matched := cursor.MatchOne(semicolonToken); matched.Code != semicolonCode {
			return nil, model.NewError(model.ErrorKindParse, "order", cursor.NewError(semicolonToken))
		}
	}
}

func parseClause(cursor *parsly.Cursor) (*model.Order, error) {
	matched := cursor.MatchAfterOptional(whitespaceToken, kindToken)
	if matched.Code != kindCode {
		return nil, cursor.NewError(kindToken)
	}
	kind, err := model.ParseKind(matched.Text(cursor))
	if err != nil {
		return nil, err
	}

	if matched = cursor.MatchOne(whitespaceToken); matched.Code != whitespaceCode {
		return nil, cursor.NewError(whitespaceToken)
	}
	if matched = cursor.MatchOne(sizeToken); matched.Code != sizeCode {
		return nil, cursor.NewError(sizeToken)
	}
	size, err := model.ParseSize(matched.Text(cursor))
	if err != nil {
		return nil, err
	}

	if matched = cursor.MatchOne(whitespaceToken); matched.Code != whitespaceCode {
		return nil, cursor.NewError(whitespaceToken)
	}
	if matched = cursor.MatchOne(quantityPrefixToken); matched.Code != quantityPrefixCode {
		return nil, cursor.NewError(quantityPrefixToken)
	}
	if matched = cursor.MatchOne(quantityToken); matched.Code != quantityCode {
		return nil, cursor.NewError(quantityToken)
	}
	quantity, err := strconv.Atoi(matched.Text(cursor))
	if err != nil {
		return nil, err
	}
	return model.NewOrder(kind, size, quantity)
}
