// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package controllers

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/hexya-addons/boardresolutions/src/server"
	"github.com/hexya-addons/boardresolutions/src/tools/exceptions"
)

// dateFormat is the format of dates in requests and responses
const dateFormat = "2006-01-02"

// A Date is a day given as YYYY-MM-DD in requests. Full RFC 3339
// timestamps are accepted too.
type Date struct {
	time.Time
}

// UnmarshalJSON parses a YYYY-MM-DD or RFC 3339 string
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	layout := dateFormat
	if strings.Contains(s, "T") {
		layout = time.RFC3339
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return exceptions.NewValidationError("invalid date %q", s)
	}
	d.Time = t.UTC()
	return nil
}

// pathID returns the id path parameter. It renders a validation error
// and returns false if it is not a positive integer.
func pathID(c *server.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.RenderError(exceptions.NewValidationError("invalid id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}

// queryInt returns the integer query parameter key, or 0 if it is not
// set. It renders a validation error and returns false if the value is
// not an integer.
func queryInt(c *server.Context, key string) (int, bool) {
	value := c.Query(key)
	if value == "" {
		return 0, true
	}
	res, err := strconv.Atoi(value)
	if err != nil {
		c.RenderError(exceptions.NewValidationError("invalid %s %q", key, value))
		return 0, false
	}
	return res, true
}
