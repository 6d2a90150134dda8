package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/dbcore/internal/query"
	"github.com/roach88/dbcore/internal/sorting"
	"github.com/roach88/dbcore/internal/store"
)

// QueryOptions holds the flags that describe a search. Shared by explain
// and search.
type QueryOptions struct {
	Where   []string // "kind:field=pattern" terms
	Any     string   // substring searched in every search field
	Or      bool     // join terms with OR
	Sort    []string // "field[:asc|desc]" terms
	OrderBy string   // raw ORDER BY text
}

func addQueryFlags(cmd *cobra.Command, opts *QueryOptions) {
	cmd.Flags().StringArrayVarP(&opts.Where, "where", "w", nil, "filter term kind:field=pattern (repeatable)")
	cmd.Flags().StringVar(&opts.Any, "any", "", "substring to find in any search field")
	cmd.Flags().BoolVar(&opts.Or, "or", false, "match any term instead of all")
	cmd.Flags().StringArrayVarP(&opts.Sort, "sort", "s", nil, "sort term field[:asc|desc] (repeatable)")
	cmd.Flags().StringVar(&opts.OrderBy, "order-by", "", "raw ORDER BY text, instead of --sort")
}

// build turns the flags into a query and a sort over schema. Fields that
// are not native columns become slow leaves. Either result may be nil.
func (o *QueryOptions) build(schema store.Schema, searchFields []string) (query.Query, sorting.Sort, error) {
	if o.OrderBy != "" && len(o.Sort) > 0 {
		return nil, nil, errors.New("--order-by and --sort are mutually exclusive")
	}

	qs, err := query.ParseTerms(o.Where, schema.HasColumn)
	if err != nil {
		return nil, nil, err
	}
	if o.Any != "" {
		anyField, err := query.NewAnyFieldQuery(o.Any, searchFields, query.KindSubstring)
		if err != nil {
			return nil, nil, err
		}
		qs = append(qs, anyField)
	}
	q, err := query.Combine(o.Or, qs...)
	if err != nil {
		return nil, nil, err
	}

	if o.OrderBy != "" {
		return q, sorting.Raw(o.OrderBy), nil
	}
	s, err := sorting.Parse(o.Sort, schema)
	if err != nil {
		return nil, nil, err
	}
	return q, s, nil
}
