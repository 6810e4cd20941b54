package responses

type ResponseDTO struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type HealthCheck struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type WorkerStatus struct {
	Size int `json:"size"`
	Live int `json:"live"`
}
