package schemas

// Rule table names. These double as the file basenames (plus .json) in a
// rules directory.
const (
	TableStateRules     = "state_rules"
	TableMTC            = "mtc_restrictions"
	TableReasonableness = "reasonableness_rules"
	TableFormTemplates  = "form_templates"
)

// tableSchemas maps each rule table to its JSON Schema. Severity enums and
// structural constraints live here so malformed tables are rejected at load
// time, not during evaluation.
var tableSchemas = map[string]string{
	TableStateRules:     stateRulesSchema,
	TableMTC:            mtcRestrictionsSchema,
	TableReasonableness: reasonablenessSchema,
	TableFormTemplates:  formTemplatesSchema,
}

const stateRulesSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "state_rules",
  "type": "object",
  "required": ["states"],
  "additionalProperties": false,
  "properties": {
    "states": {
      "type": "object",
      "propertyNames": {"pattern": "^[A-Z]{2}$"},
      "additionalProperties": {
        "type": "object",
        "required": ["saas_taxable", "expiration_policy", "seller_protection_policy"],
        "additionalProperties": false,
        "properties": {
          "saas_taxable": {"type": "boolean"},
          "no_sales_tax": {"type": "boolean"},
          "sst_member": {"type": "boolean"},
          "note": {"type": "string"},
          "expiration_policy": {
            "type": "object",
            "required": ["mode"],
            "additionalProperties": false,
            "properties": {
              "mode": {"enum": ["perpetual", "periodic"]},
              "renewal_years": {"type": "integer", "minimum": 1},
              "citation": {"type": "string"}
            }
          },
          "seller_protection_policy": {
            "type": "object",
            "required": ["required_elements"],
            "additionalProperties": false,
            "properties": {
              "required_elements": {
                "type": "array",
                "items": {
                  "type": "object",
                  "required": ["name"],
                  "additionalProperties": false,
                  "properties": {
                    "name": {
                      "enum": ["buyer_name", "seller_name", "exemption_type", "signature", "issue_date", "form_complete"]
                    },
                    "mandatory": {"type": "boolean"}
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

const mtcRestrictionsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "mtc_restrictions",
  "type": "object",
  "required": ["jurisdictions"],
  "additionalProperties": false,
  "properties": {
    "jurisdictions": {
      "type": "object",
      "propertyNames": {"pattern": "^[A-Z]{2}$"},
      "additionalProperties": {
        "type": "object",
        "required": ["resale_only"],
        "additionalProperties": false,
        "properties": {
          "resale_only": {"type": "boolean"},
          "alternative_forms": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

const reasonablenessSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "reasonableness_rules",
  "type": "object",
  "required": ["exemption_types"],
  "additionalProperties": false,
  "properties": {
    "exemption_types": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["name", "severity"],
          "additionalProperties": false,
          "properties": {
            "name": {"type": "string", "minLength": 1},
            "patterns": {"type": "array", "items": {"type": "string", "minLength": 1}},
            "min_amount": {"type": "number", "minimum": 0},
            "severity": {"enum": ["info", "warning"]},
            "note": {"type": "string"}
          }
        }
      }
    }
  }
}`

const formTemplatesSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "form_templates",
  "type": "object",
  "required": ["forms"],
  "additionalProperties": false,
  "properties": {
    "forms": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "patterns"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "jurisdiction": {"type": "string", "pattern": "^[A-Z]{2}$"},
          "mtc": {"type": "boolean"},
          "patterns": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["text"],
              "additionalProperties": false,
              "properties": {
                "text": {"type": "string", "minLength": 1},
                "weight": {"type": "number", "exclusiveMinimum": 0}
              }
            }
          },
          "required_fields": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`
