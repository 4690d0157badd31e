package standardize

import (
	"database/sql"
	"strings"
)

const (
	categoryPrefixLen = 5
	productKeyOffset  = 6 // символ-разделитель между категорией и кодом продукта пропускается

	erpCustomerPrefix = "NAS"
)

// SplitProductKey делит составной ключ каталога на идентификатор категории
// (первые 5 символов, '-' заменяется на '_') и ключ продукта (символы с 7-го).
// Для "AB-CD-1234" возвращает "AB_CD" и "1234".
func SplitProductKey(key sql.NullString) (categoryID, productKey sql.NullString) {
	if !key.Valid {
		return sql.NullString{}, sql.NullString{}
	}

	runes := []rune(key.String)

	prefix := runes[:min(categoryPrefixLen, len(runes))]
	categoryID = sql.NullString{
		String: strings.ReplaceAll(string(prefix), "-", "_"),
		Valid:  true,
	}

	suffix := ""
	if len(runes) > productKeyOffset {
		suffix = string(runes[productKeyOffset:])
	}
	productKey = sql.NullString{String: suffix, Valid: true}

	return categoryID, productKey
}

// StripERPCustomerPrefix убирает префикс 'NAS' из идентификатора клиента ERP.
// "NAS00123" превращается в "00123", идентификатор без префикса не меняется.
func StripERPCustomerPrefix(cid sql.NullString) sql.NullString {
	if !cid.Valid {
		return cid
	}
	if len(cid.String) >= len(erpCustomerPrefix) && strings.EqualFold(cid.String[:len(erpCustomerPrefix)], erpCustomerPrefix) {
		return sql.NullString{String: cid.String[len(erpCustomerPrefix):], Valid: true}
	}
	return cid
}

// StripSeparators удаляет символы '-' внутри идентификатора
func StripSeparators(cid sql.NullString) sql.NullString {
	if !cid.Valid {
		return cid
	}
	return sql.NullString{String: strings.ReplaceAll(cid.String, "-", ""), Valid: true}
}
