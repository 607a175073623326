package i18n

import (
	"fmt"
	"strings"

	"github.com/colis-next/internal/constants"

	"github.com/gin-gonic/gin"
)

// DefaultLocale 默认语言
const DefaultLocale = constants.LocaleFrFR

// messages 文案表：locale -> key -> 模板
var messages = map[string]map[string]string{
	constants.LocaleFrFR: {
		"success":                        "succès",
		"error.bad_request":              "requête invalide",
		"error.unauthorized":             "authentification requise",
		"error.forbidden":                "accès refusé",
		"error.not_found":                "ressource introuvable",
		"error.internal":                 "erreur interne",
		"error.too_many_requests":        "trop de tentatives, réessayez plus tard",
		"error.invalid_credentials":      "email ou mot de passe incorrect",
		"error.account_disabled":         "compte désactivé",
		"error.weak_password":            "mot de passe trop faible",
		"error.password_min_length":      "le mot de passe doit contenir au moins %d caractères",
		"error.password_require_upper":   "le mot de passe doit contenir une majuscule",
		"error.password_require_lower":   "le mot de passe doit contenir une minuscule",
		"error.password_require_number":  "le mot de passe doit contenir un chiffre",
		"error.password_require_special": "le mot de passe doit contenir un caractère spécial",
		"error.email_taken":              "cet email est déjà utilisé",
		"error.invalid_phone":            "numéro de téléphone invalide",
		"error.user_not_found":           "compte introuvable",
		"error.client_not_found":         "client introuvable",
		"error.delivery_not_found":       "livraison introuvable",
		"error.client_in_use":            "client avec des livraisons, suppression impossible",
		"error.courier_in_use":           "livreur avec des livraisons, suppression impossible",
		"error.invalid_transition":       "changement de statut non autorisé",
		"error.postpone_date_invalid":    "la date de report doit être au plus tôt demain",
		"error.postpone_not_allowed":     "report impossible dans ce statut",
		"error.transfer_invalid":         "transfert de livreur invalide",
		"error.delivery_not_deletable":   "livraison non supprimable dans ce statut",
		"error.not_assigned_courier":     "livraison non assignée à ce livreur",
		"error.settlement_empty":         "au moins une livraison est requise",
		"error.invalid_parameter":        "paramètre invalide",
		"error.fetch_failed":             "échec de la lecture",
		"error.create_failed":            "échec de la création",
		"error.update_failed":            "échec de la mise à jour",
		"error.delete_failed":            "échec de la suppression",
		"error.export_failed":            "échec de l'export",

		"error.jwt_secret_missing":        "configuration JWT manquante",
		"error.auth_header_missing":       "en-tête Authorization manquant",
		"error.auth_header_invalid":       "en-tête Authorization invalide",
		"error.token_invalid":             "jeton invalide",
		"error.token_revoked":             "jeton révoqué, reconnectez-vous",
		"error.rate_limited":              "trop de requêtes, réessayez dans %d secondes",
		"error.rate_limit_unavailable":    "service de limitation indisponible",
		"error.login_too_many":            "trop de tentatives de connexion, réessayez dans %d secondes",
		"error.planned_date_invalid":      "date de livraison invalide (format AAAA-MM-JJ)",
		"error.weight_invalid":            "poids invalide",
		"error.user_id_invalid":           "identifiant de compte invalide",
		"error.user_id_type_invalid":      "identifiant de compte illisible",
		"error.client_id_invalid":         "identifiant client invalide",
		"error.courier_id_invalid":        "identifiant livreur invalide",
		"error.delivery_id_invalid":       "identifiant livraison invalide",
		"error.user_fetch_failed":         "échec de la lecture du compte",
		"error.user_create_failed":        "échec de la création du compte",
		"error.client_fetch_failed":       "échec de la lecture des clients",
		"error.client_create_failed":      "échec de la création du client",
		"error.client_update_failed":      "échec de la mise à jour du client",
		"error.client_delete_failed":      "échec de la suppression du client",
		"error.courier_fetch_failed":      "échec de la lecture des livreurs",
		"error.courier_create_failed":     "échec de la création du livreur",
		"error.courier_update_failed":     "échec de la mise à jour du livreur",
		"error.courier_delete_failed":     "échec de la suppression du livreur",
		"error.courier_not_found":         "livreur introuvable",
		"error.delivery_fetch_failed":     "échec de la lecture des livraisons",
		"error.delivery_create_failed":    "échec de la création de la livraison",
		"error.delivery_update_failed":    "échec de la mise à jour de la livraison",
		"error.delivery_delete_failed":    "échec de la suppression de la livraison",
		"error.delivery_status_failed":    "échec du changement de statut",
		"error.delivery_postpone_failed":  "échec du report",
		"error.delivery_transfer_failed":  "échec du transfert",
		"error.report_fetch_failed":       "échec de la lecture du rapport",
		"error.report_export_failed":      "échec de l'export du rapport",
		"error.settlement_fetch_failed":   "échec de la lecture des règlements",
		"error.settlement_confirm_failed": "échec de la confirmation du règlement",
		"error.settlement_type_invalid":   "mode de règlement invalide",
		"error.dashboard_fetch_failed":    "échec de la lecture du tableau de bord",
		"error.authz_fetch_failed":        "échec de la lecture des rôles",
		"error.authz_update_failed":       "échec de la mise à jour des rôles",
		"error.authz_role_invalid":        "rôle invalide",
	},
	constants.LocaleMgMG: {
		"error.bad_request":         "fangatahana tsy mety",
		"error.unauthorized":        "mila miditra aloha",
		"error.forbidden":           "tsy manan-jo",
		"error.not_found":           "tsy hita",
		"error.internal":            "nisy olana anaty rafitra",
		"error.invalid_credentials": "mailaka na teny miafina diso",
		"error.account_disabled":    "kaonty najanona",
		"error.invalid_phone":       "laharana finday tsy mety",
		"error.delivery_not_found":  "tsy hita ilay entana",
		"error.invalid_transition":  "tsy azo ovaina toy izany ny sata",
		"error.settlement_empty":    "mila entana iray farafahakeliny",
	},
	constants.LocaleEnUS: {
		"success":                        "success",
		"error.bad_request":              "invalid request",
		"error.unauthorized":             "authentication required",
		"error.forbidden":                "access denied",
		"error.not_found":                "resource not found",
		"error.internal":                 "internal error",
		"error.too_many_requests":        "too many attempts, try again later",
		"error.invalid_credentials":      "invalid email or password",
		"error.account_disabled":         "account disabled",
		"error.weak_password":            "password too weak",
		"error.password_min_length":      "password must be at least %d characters",
		"error.password_require_upper":   "password must contain an uppercase letter",
		"error.password_require_lower":   "password must contain a lowercase letter",
		"error.password_require_number":  "password must contain a digit",
		"error.password_require_special": "password must contain a special character",
		"error.email_taken":              "email already in use",
		"error.invalid_phone":            "invalid phone number",
		"error.user_not_found":           "account not found",
		"error.client_not_found":         "client not found",
		"error.delivery_not_found":       "delivery not found",
		"error.client_in_use":            "client still has deliveries, cannot delete",
		"error.courier_in_use":           "courier still has deliveries, cannot delete",
		"error.invalid_transition":       "status transition not allowed",
		"error.postpone_date_invalid":    "postpone date must be tomorrow or later",
		"error.postpone_not_allowed":     "cannot postpone in this status",
		"error.transfer_invalid":         "invalid courier transfer",
		"error.delivery_not_deletable":   "delivery cannot be deleted in this status",
		"error.not_assigned_courier":     "delivery not assigned to this courier",
		"error.settlement_empty":         "at least one delivery is required",
		"error.invalid_parameter":        "invalid parameter",
		"error.fetch_failed":             "fetch failed",
		"error.create_failed":            "create failed",
		"error.update_failed":            "update failed",
		"error.delete_failed":            "delete failed",
		"error.export_failed":            "export failed",

		"error.jwt_secret_missing":        "JWT configuration missing",
		"error.auth_header_missing":       "Authorization header missing",
		"error.auth_header_invalid":       "Authorization header invalid",
		"error.token_invalid":             "invalid token",
		"error.token_revoked":             "token revoked, please sign in again",
		"error.rate_limited":              "too many requests, retry in %d seconds",
		"error.rate_limit_unavailable":    "rate limit service unavailable",
		"error.login_too_many":            "too many login attempts, retry in %d seconds",
		"error.planned_date_invalid":      "invalid delivery date (expected YYYY-MM-DD)",
		"error.weight_invalid":            "invalid weight",
		"error.user_id_invalid":           "invalid account id",
		"error.user_id_type_invalid":      "unreadable account id",
		"error.client_id_invalid":         "invalid client id",
		"error.courier_id_invalid":        "invalid courier id",
		"error.delivery_id_invalid":       "invalid delivery id",
		"error.user_fetch_failed":         "failed to load account",
		"error.user_create_failed":        "failed to create account",
		"error.client_fetch_failed":       "failed to load clients",
		"error.client_create_failed":      "failed to create client",
		"error.client_update_failed":      "failed to update client",
		"error.client_delete_failed":      "failed to delete client",
		"error.courier_fetch_failed":      "failed to load couriers",
		"error.courier_create_failed":     "failed to create courier",
		"error.courier_update_failed":     "failed to update courier",
		"error.courier_delete_failed":     "failed to delete courier",
		"error.courier_not_found":         "courier not found",
		"error.delivery_fetch_failed":     "failed to load deliveries",
		"error.delivery_create_failed":    "failed to create delivery",
		"error.delivery_update_failed":    "failed to update delivery",
		"error.delivery_delete_failed":    "failed to delete delivery",
		"error.delivery_status_failed":    "failed to change delivery status",
		"error.delivery_postpone_failed":  "failed to postpone delivery",
		"error.delivery_transfer_failed":  "failed to transfer delivery",
		"error.report_fetch_failed":       "failed to load report",
		"error.report_export_failed":      "failed to export report",
		"error.settlement_fetch_failed":   "failed to load settlements",
		"error.settlement_confirm_failed": "failed to confirm settlement",
		"error.settlement_type_invalid":   "invalid settlement type",
		"error.dashboard_fetch_failed":    "failed to load dashboard",
		"error.authz_fetch_failed":        "failed to load roles",
		"error.authz_update_failed":       "failed to update roles",
		"error.authz_role_invalid":        "invalid role",
	},
}

// NormalizeLocale 归一化语言标签，未支持的取默认语言
func NormalizeLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return DefaultLocale
	}
	lower := strings.ToLower(locale)
	for _, supported := range constants.SupportedLocales {
		if strings.ToLower(supported) == lower {
			return supported
		}
	}
	// 只带语言前缀的标签（fr、mg、en）也接受
	prefix := strings.SplitN(lower, "-", 2)[0]
	for _, supported := range constants.SupportedLocales {
		if strings.HasPrefix(strings.ToLower(supported), prefix+"-") {
			return supported
		}
	}
	return DefaultLocale
}

// ResolveLocale 从请求解析语言：query 参数优先，其次 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if locale := strings.TrimSpace(c.Query("locale")); locale != "" {
		return NormalizeLocale(locale)
	}
	accept := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(accept, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		normalized := NormalizeLocale(tag)
		if normalized != DefaultLocale || strings.HasPrefix(strings.ToLower(tag), "fr") {
			return normalized
		}
	}
	return DefaultLocale
}

// T 查表取文案，缺失时回退默认语言，再缺失返回 key 本身
func T(locale, key string) string {
	locale = NormalizeLocale(locale)
	if msg, ok := messages[locale][key]; ok {
		return msg
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 带参数的文案格式化
func Sprintf(locale, key string, args ...interface{}) string {
	template := T(locale, key)
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}
