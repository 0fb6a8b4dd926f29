package request

import "time"

type AvailabilitySearchRequest struct {
	CheckIn  string `json:"checkIn" binding:"required,datetime=2006-01-02"`
	CheckOut string `json:"checkOut" binding:"required,datetime=2006-01-02"`
	Adults   int    `json:"adults" binding:"required,min=1"`
	Children int    `json:"children" binding:"min=0"`
}

func (r AvailabilitySearchRequest) StayDates() (checkIn, checkOut time.Time, err error) {
	checkIn, err = time.Parse(stayDateLayout, r.CheckIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	checkOut, err = time.Parse(stayDateLayout, r.CheckOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return checkIn, checkOut, nil
}
