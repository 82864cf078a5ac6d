// Package messages holds client facing texts
package messages

const (
	NameIsRequired                 = "Name is required"
	NameMustBeString               = "Name must be a string"
	NameLengthFrom3To10            = "Name length must be from 3 to 10"
	NameLengthFrom1To100           = "Name length must be from 1 to 100"
	EmailIsRequired                = "Email is required"
	EmailIsInvalid                 = "Email is invalid"
	EmailAlreadyExists             = "Email already exists"
	PasswordIsRequired             = "Password is required"
	PasswordLengthFrom6To50        = "Password length must be from 6 to 50"
	PasswordMustBeStrong           = "Password must be contain at least 1 lowercase, 1 uppercase, 1 number, 1 symbol"
	ConfirmPasswordIsRequired      = "Confirm password is required"
	ConfirmPasswordLengthFrom6To50 = "Confirm password length must be from 6 to 50"
	ConfirmPasswordMustBeStrong    = "Confirm password must be contain at least 1 lowercase, 1 uppercase, 1 number, 1 symbol"
	ConfirmPasswordNotMatch        = "Confirm password not match with password"
	DateOfBirthMustBeISO8601       = "Date of birth must be ISO8601"
	BioLengthMax200                = "Bio length must be less than 200"
	LocationLengthMax200           = "Location length must be less than 200"
	WebsiteLengthMax200            = "Website length must be less than 200"
	ImageURLLengthMax400           = "Image url length must be less than 400"
	UsernameIsInvalid              = "Username must be 4-15 characters long and contain only letters, numbers, underscores, not only numbers"
	UsernameAlreadyExists          = "Username already exists"
	InvalidUserID                  = "Invalid user id"
	FieldMustBeString              = "Field must be a string"
	InvalidValue                   = "Invalid value"
	InvalidRequestBody             = "Invalid request body"

	UserIsNotFound  = "User is not found"
	UserNotVerified = "User not verified"

	AccessTokenIsRequired         = "Access token is required"
	AccessTokenIsInvalid          = "Access token is invalid"
	AccessTokenIsExpired          = "Access token is expired"
	RefreshTokenIsRequired        = "Refresh token is required"
	RefreshTokenIsInvalid         = "Refresh token is invalid"
	RefreshTokenIsExpired         = "Refresh token is expired"
	UsedRefreshTokenOrNotExist    = "Used refresh token or not exist"
	EmailVerifyTokenIsRequired    = "Email verify token is required"
	EmailVerifyTokenIsInvalid     = "Email verify token is invalid"
	EmailVerifyTokenIsExpired     = "Email verify token is expired"
	EmailAlreadyVerified          = "Email already verified"
	ForgotPasswordTokenIsRequired = "Forgot password token is required"
	ForgotPasswordTokenIsInvalid  = "Forgot password token is invalid"
	ForgotPasswordTokenIsExpired  = "Forgot password token is expired"

	LoginSuccess                = "Login success"
	RegisterSuccess             = "Register success"
	LogoutSuccess               = "Logout success"
	RefreshTokenSuccess         = "Refresh token success"
	EmailVerifySuccess          = "Email verify success"
	ResendVerifyEmailSuccess    = "Resend verify email success"
	CheckEmailToResetPassword   = "Check email to reset password"
	VerifyForgotPasswordSuccess = "Verify forgot password success"
	ResetPasswordSuccess        = "Reset password success"
	GetMyProfileSuccess         = "Get my profile success"
	UpdateMyProfileSuccess      = "Update my profile success"
	GetProfileSuccess           = "Get profile success"
	FollowSuccess               = "Follow success"
	Followed                    = "Followed"
	UnfollowSuccess             = "Unfollow success"
	AlreadyUnfollowed           = "Already unfollowed"
)
