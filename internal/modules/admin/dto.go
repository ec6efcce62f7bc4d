package admin

type roomTypeRequest struct {
	Name             string `json:"name" binding:"required"`
	DisplayName      string `json:"display_name" binding:"required"`
	BasePrice        int    `json:"base_price" binding:"gte=0"`
	HolidaySurcharge int    `json:"holiday_surcharge" binding:"gte=0"`
	Active           *bool  `json:"active"`
}

type holidayRequest struct {
	Date      string `json:"date" binding:"required"`
	Name      string `json:"name"`
	IsHoliday *bool  `json:"is_holiday" binding:"required"`
}

type templateRequest struct {
	Enabled    *bool   `json:"enabled"`
	Subject    *string `json:"subject"`
	Body       *string `json:"body"`
	OffsetDays *int    `json:"offset_days" binding:"omitempty,gte=0"`
	SendHour   *int    `json:"send_hour" binding:"omitempty,gte=0,lte=23"`
}

type promoCodeRequest struct {
	Code     string `json:"code" binding:"required"`
	Discount int    `json:"discount" binding:"gte=0"`
	Active   *bool  `json:"active"`
}
