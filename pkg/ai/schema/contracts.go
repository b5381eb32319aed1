package schema

// ToolQuery is the argument object shared by every research tool.
type ToolQuery struct {
	Query string `json:"query" jsonschema:"minLength=1" jsonschema_description:"A search query contextualised to the product idea"`
}

// SocialPlan is the social strategist output.
type SocialPlan struct {
	Posts []string `json:"posts"`
}

// ScheduleEntryOutput mirrors one scheduler entry before filtering.
// Nil fields are legal at parse time and dropped later.
type ScheduleEntryOutput struct {
	Day     *string `json:"day"`
	Time    *string `json:"time"`
	Content *string `json:"content"`
}

type SchedulePlan struct {
	Schedule []ScheduleEntryOutput `json:"schedule"`
}

const schedulePlanSchema = `{
  "type": "object",
  "required": ["schedule"],
  "properties": {
    "schedule": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["day", "time", "content"],
        "properties": {
          "day": {"type": ["string", "null"]},
          "time": {"type": ["string", "null"]},
          "content": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

var (
	ToolQueryContract    = Must(Reflect[ToolQuery]("tool_query"))
	SocialPlanContract   = Must(Reflect[SocialPlan]("social_plan"))
	SchedulePlanContract = Must(FromJSON("schedule_plan", schedulePlanSchema))
)
