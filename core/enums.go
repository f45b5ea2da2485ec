package core

import "strings"

// LanguageCode is an ISO 639-1 (or service specific) language hint.
type LanguageCode string

// Languages accepted by the recognizer.
const (
	LangAZ  LanguageCode = "az"
	LangBA  LanguageCode = "ba"
	LangBE  LanguageCode = "be"
	LangBG  LanguageCode = "bg"
	LangBS  LanguageCode = "bs"
	LangCS  LanguageCode = "cs"
	LangCV  LanguageCode = "cv"
	LangDA  LanguageCode = "da"
	LangDE  LanguageCode = "de"
	LangEN  LanguageCode = "en"
	LangES  LanguageCode = "es"
	LangET  LanguageCode = "et"
	LangFI  LanguageCode = "fi"
	LangFR  LanguageCode = "fr"
	LangHU  LanguageCode = "hu"
	LangID  LanguageCode = "id"
	LangIT  LanguageCode = "it"
	LangKK  LanguageCode = "kk"
	LangKY  LanguageCode = "ky"
	LangLT  LanguageCode = "lt"
	LangLV  LanguageCode = "lv"
	LangMT  LanguageCode = "mt"
	LangNL  LanguageCode = "nl"
	LangNO  LanguageCode = "no"
	LangPL  LanguageCode = "pl"
	LangPT  LanguageCode = "pt"
	LangRO  LanguageCode = "ro"
	LangRU  LanguageCode = "ru"
	LangSAH LanguageCode = "sah"
	LangSK  LanguageCode = "sk"
	LangSL  LanguageCode = "sl"
	LangSR  LanguageCode = "sr"
	LangSV  LanguageCode = "sv"
	LangTG  LanguageCode = "tg"
	LangTR  LanguageCode = "tr"
	LangTT  LanguageCode = "tt"
	LangUZ  LanguageCode = "uz"
	LangAR  LanguageCode = "ar"
	LangEL  LanguageCode = "el"
	LangHE  LanguageCode = "he"
	LangHY  LanguageCode = "hy"
	LangJA  LanguageCode = "ja"
	LangKA  LanguageCode = "ka"
	LangKO  LanguageCode = "ko"
	LangTH  LanguageCode = "th"
	LangVI  LanguageCode = "vi"
	LangZH  LanguageCode = "zh"
)

var languageCodes = []LanguageCode{
	LangAZ, LangBA, LangBE, LangBG, LangBS, LangCS, LangCV, LangDA, LangDE, LangEN,
	LangES, LangET, LangFI, LangFR, LangHU, LangID, LangIT, LangKK, LangKY, LangLT,
	LangLV, LangMT, LangNL, LangNO, LangPL, LangPT, LangRO, LangRU, LangSAH, LangSK,
	LangSL, LangSR, LangSV, LangTG, LangTR, LangTT, LangUZ, LangAR, LangEL, LangHE,
	LangHY, LangJA, LangKA, LangKO, LangTH, LangVI, LangZH,
}

// LanguageCodes returns every supported language code.
func LanguageCodes() []LanguageCode {
	return append([]LanguageCode(nil), languageCodes...)
}

// ParseLanguageCode validates s (case-insensitive) against the supported codes.
func ParseLanguageCode(s string) (LanguageCode, error) {
	want := LanguageCode(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range languageCodes {
		if c == want {
			return c, nil
		}
	}
	return "", NewValidationError("unsupported language code: %q", s)
}

// Model selects the recognition model.
type Model string

// Recognition models.
const (
	ModelPage                     Model = "page"
	ModelPageColumnSort           Model = "page-column-sort"
	ModelHandwritten              Model = "handwritten"
	ModelTable                    Model = "table"
	ModelMarkdown                 Model = "markdown"
	ModelMathMarkdown             Model = "math-markdown"
	ModelPassport                 Model = "passport"
	ModelDriverLicenseFront       Model = "driver-license-front"
	ModelDriverLicenseBack        Model = "driver-license-back"
	ModelVehicleRegistrationFront Model = "vehicle-registration-front"
	ModelVehicleRegistrationBack  Model = "vehicle-registration-back"
	ModelLicensePlates            Model = "license-plates"
)

var models = []Model{
	ModelPage, ModelPageColumnSort, ModelHandwritten, ModelTable, ModelMarkdown,
	ModelMathMarkdown, ModelPassport, ModelDriverLicenseFront, ModelDriverLicenseBack,
	ModelVehicleRegistrationFront, ModelVehicleRegistrationBack, ModelLicensePlates,
}

// Models returns every supported model.
func Models() []Model {
	return append([]Model(nil), models...)
}

// ParseModel validates s against the supported models.
func ParseModel(s string) (Model, error) {
	want := Model(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range models {
		if m == want {
			return m, nil
		}
	}
	return "", NewValidationError("unsupported model: %q", s)
}
