package checkin

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/hashicorp/go-multierror"
)

// customerRow is the gocsv-decodable shape of one customer line once its
// "ID:CLASS,ARRIVAL,SERVICE" form has been rewritten to plain CSV.
type customerRow struct {
	ID      int `csv:"id"`
	Class   int `csv:"class"`
	Arrival int `csv:"arrival"`
	Service int `csv:"service"`
}

const customerRowHeader = "id,class,arrival,service\n"

// ParseCustomerFile reads a check-in customer file: a first line holding the
// customer count N, followed by N lines of the form "ID:CLASS,ARRIVAL,SERVICE".
// Rather than aborting at the first malformed line, every line is attempted
// and every failure is collected via a multierror.Error so a caller fixing a
// bad customer file sees every problem in one pass.
func ParseCustomerFile(r io.Reader) ([]Customer, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return nil, fmt.Errorf("customer file is empty")
	}

	count, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return nil, fmt.Errorf("customer count line is not an integer: %w", err)
	}

	var result *multierror.Error
	customers := make([]Customer, 0, count)

	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		customer, err := parseCustomerLine(line)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		customers = append(customers, customer)
	}
	if err := scanner.Err(); err != nil {
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	if len(customers) != count {
		return customers, fmt.Errorf("customer file declares %d customers, found %d", count, len(customers))
	}
	return customers, nil
}

// parseCustomerLine decodes one "ID:CLASS,ARRIVAL,SERVICE" line by rewriting
// it to CSV and handing it to gocsv, the same embedded-table decoding idiom
// this project's static geometry table uses.
func parseCustomerLine(line string) (Customer, error) {
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return Customer{}, fmt.Errorf("missing ':' separator in %q", line)
	}
	csvForm := customerRowHeader + line[:colon] + "," + line[colon+1:] + "\n"

	var rows []customerRow
	if err := gocsv.UnmarshalString(csvForm, &rows); err != nil {
		return Customer{}, fmt.Errorf("malformed line %q: %w", line, err)
	}
	if len(rows) != 1 {
		return Customer{}, fmt.Errorf("malformed line %q", line)
	}
	row := rows[0]

	if row.Class != int(Economy) && row.Class != int(Business) {
		return Customer{}, fmt.Errorf("class must be 0 or 1, got %d", row.Class)
	}
	if row.Arrival <= 0 || row.Service <= 0 {
		return Customer{}, fmt.Errorf("arrival/service times must be positive, got %d/%d", row.Arrival, row.Service)
	}

	return Customer{
		ID:            row.ID,
		Class:         CustomerClass(row.Class),
		ArrivalTenths: row.Arrival,
		ServiceTenths: row.Service,
	}, nil
}
