package webreg

// Endpoint is a path relative to Options.BaseUrl.
type Endpoint string

const (
	EndpointAccountName Endpoint = "/svc/wradapter/get-current-name"
	EndpointTermList    Endpoint = "/svc/wradapter/get-term"

	EndpointCourseData     Endpoint = "/svc/wradapter/secure/search-load-group-data"
	EndpointPrerequisites  Endpoint = "/svc/wradapter/secure/get-prerequisites"
	EndpointSearch         Endpoint = "/svc/wradapter/secure/search-by-all"
	EndpointSearchSection  Endpoint = "/svc/wradapter/secure/search-by-sectionid"
	EndpointDepartmentList Endpoint = "/svc/wradapter/secure/search-load-department"
	EndpointSubjectList    Endpoint = "/svc/wradapter/secure/search-load-subject"

	EndpointSchedule       Endpoint = "/svc/wradapter/secure/get-class"
	EndpointScheduleNames  Endpoint = "/svc/wradapter/secure/sched-get-schednames"
	EndpointRenameSchedule Endpoint = "/svc/wradapter/secure/plan-rename"
	EndpointRemoveSchedule Endpoint = "/svc/wradapter/secure/sched-remove"

	EndpointStatusStart      Endpoint = "/svc/wradapter/secure/get-status-start"
	EndpointCheckEligibility Endpoint = "/svc/wradapter/secure/check-eligibility"
	EndpointPing             Endpoint = "/svc/wradapter/secure/ping-server"
	EndpointSendEmail        Endpoint = "/svc/wradapter/secure/send-email"
	EndpointChangeEnroll     Endpoint = "/svc/wradapter/secure/change-enroll"

	EndpointPlanAdd       Endpoint = "/svc/wradapter/secure/plan-add"
	EndpointPlanRemove    Endpoint = "/svc/wradapter/secure/plan-remove"
	EndpointPlanEdit      Endpoint = "/svc/wradapter/secure/edit-plan"
	EndpointPlanRemoveAll Endpoint = "/svc/wradapter/secure/plan-remove-all"

	EndpointEnrollAdd    Endpoint = "/svc/wradapter/secure/add-enroll"
	EndpointEnrollEdit   Endpoint = "/svc/wradapter/secure/edit-enroll"
	EndpointEnrollDrop   Endpoint = "/svc/wradapter/secure/drop-enroll"
	EndpointWaitlistAdd  Endpoint = "/svc/wradapter/secure/add-wait"
	EndpointWaitlistEdit Endpoint = "/svc/wradapter/secure/edit-wait"
	EndpointWaitlistDrop Endpoint = "/svc/wradapter/secure/drop-wait"

	EndpointEventAdd    Endpoint = "/svc/wradapter/secure/event-add"
	EndpointEventEdit   Endpoint = "/svc/wradapter/secure/event-edit"
	EndpointEventRemove Endpoint = "/svc/wradapter/secure/event-remove"
	EndpointEventList   Endpoint = "/svc/wradapter/secure/event-get"
)
