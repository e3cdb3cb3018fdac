package decoder

import (
	"context"

	"vcardimport/internal/vcard/models"
	"vcardimport/internal/vcard/parser"
	"vcardimport/pkg/platform/strings"
)

// importParam builds the Param of one property instance. It never returns a
// nil Param on success.
func (d *Decoder) importParam(ctx context.Context, prop *parser.Property) (*models.Param, error) {
	param := &models.Param{
		AltID:     prop.Param("ALTID"),
		Geo:       prop.Param("GEO"),
		Label:     prop.Param("LABEL"),
		Language:  prop.Param("LANGUAGE"),
		MediaType: prop.Param("MEDIATYPE"),
		Pref:      prop.Param("PREF"),
		SortAs:    prop.Param("SORT-AS"),
		Timezone:  prop.Param("TZ"),
	}

	if v := prop.Param("VALUE"); v != "" {
		valueType, err := d.cache.Resolve(ctx, models.VocabularyParamValueType, v)
		if err != nil {
			return nil, err
		}
		param.ValueType = valueType
	}

	types, err := d.resolveAll(ctx, models.VocabularyType, strings.SplitSet(prop.ParamValues("TYPE"), ","))
	if err != nil {
		return nil, err
	}
	param.Types = types
	return param, nil
}

func (d *Decoder) resolveAll(ctx context.Context, kind models.VocabularyKind, values []string) ([]*models.Vocabulary, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]*models.Vocabulary, 0, len(values))
	for _, v := range values {
		entity, err := d.cache.Resolve(ctx, kind, v)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}
