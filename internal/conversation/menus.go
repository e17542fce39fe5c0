package conversation

import "github.com/Jahongir0126/notificate-bot/internal/messaging"

// Menu labels double as commands: the client sends the label text back.
const (
	LabelAddOwnData   = "📝 Добавить данные"
	LabelMyData       = "👤 Мои данные"
	LabelGetData      = "📊 Получить данные"
	LabelAddData      = "➕ Добавить данные"
	LabelCheckExpiry  = "🔍 Проверка сроков"
	LabelManageAdmins = "👥 Управление админами"
	LabelAddAdmin     = "➕ Добавить админа"
	LabelRemoveAdmin  = "❌ Удалить админа"
	LabelListAdmins   = "📋 Список админов"
	LabelBack         = "◀️ Назад"
	LabelShareContact = "📱 Отправить номер телефона"
	LabelAllRecords   = "📋 Все данные"
)

// Slash commands. Except for /start each one stands for a menu label, which the
// transport registers as the command's alias and feeds to the engine.
const (
	CommandStart    = "/start"
	CommandMyData   = "/mydata"
	CommandReport   = "/report"
	CommandExpiring = "/expiring"
	CommandAdmins   = "/admins"
)

const (
	msgWelcomeAdmin = "Добро пожаловать, администратор! Выберите действие:"
	msgWelcomeUser  = "Добро пожаловать! Выберите действие:"
	msgMainMenu     = "Главное меню:"
	msgChoose       = "Выберите действие:"

	msgAskPhone      = "Пожалуйста, отправьте свой номер телефона:"
	msgAskFirstName  = "Введите имя:"
	msgAskLastName   = "Введите фамилию:"
	msgAskPassport   = "Введите номер паспорта (от 5 до 15 символов, буквы и цифры):"
	msgAskVisaExpiry = "Введите срок действия визы (ГГГГ-ММ-ДД):"

	msgAskUserPhone     = "Введите номер телефона пользователя:"
	msgAskUserFirstName = "Введите имя пользователя:"
	msgAskUserLastName  = "Введите фамилию пользователя:"

	msgAskNewAdminID       = "Введите Telegram ID нового администратора:"
	msgAskNewAdminUsername = "Введите username нового администратора (без @):"
	msgAskRemoveAdminID    = "Введите Telegram ID администратора для удаления:"

	msgSaved          = "Данные успешно сохранены!"
	msgAdded          = "Данные успешно добавлены!"
	msgAdminAdded     = "Администратор успешно добавлен!\nID: %d\nUsername: %s"
	msgAdminRemoved   = "Администратор успешно удален!\nID: %d"
	msgAdminNotFound  = "Администратор с таким ID не найден."
	msgNoOwnData      = `У вас пока нет сохраненных данных. Нажмите "📝 Добавить данные" чтобы добавить информацию.`
	msgNoUsers        = "Нет данных пользователей"
	msgPickWeek       = "Выберите неделю для просмотра виз или все данные:"
	msgReportNotFound = "Данные не найдены. Пожалуйста, запросите данные снова."

	msgErrGeneric    = "Произошла ошибка. Пожалуйста, попробуйте позже."
	msgErrGetOwn     = "Произошла ошибка при получении данных. Пожалуйста, попробуйте позже."
	msgErrSave       = "Произошла ошибка при сохранении данных. Пожалуйста, попробуйте еще раз."
	msgErrAdd        = "Произошла ошибка при добавлении данных. Пожалуйста, попробуйте еще раз."
	msgErrReport     = "Произошла ошибка при получении данных"
	msgErrExpiring   = "Произошла ошибка при проверке сроков виз. Пожалуйста, попробуйте позже."
	msgErrListAdmins = "Произошла ошибка при получении списка администраторов. Пожалуйста, попробуйте позже."
	msgErrAddAdmin   = "Произошла ошибка при добавлении администратора. Пожалуйста, попробуйте позже."
	msgErrRemove     = "Произошла ошибка при удалении администратора. Пожалуйста, попробуйте позже."
)

func adminMenu() *messaging.Keyboard {
	return messaging.ReplyRows(LabelGetData, LabelAddData, LabelCheckExpiry, LabelManageAdmins)
}

func userMenu() *messaging.Keyboard {
	return messaging.ReplyRows(LabelAddOwnData, LabelMyData)
}

func roleMenu(isAdmin bool) *messaging.Keyboard {
	if isAdmin {
		return adminMenu()
	}
	return userMenu()
}

func adminManagementMenu() *messaging.Keyboard {
	return messaging.ReplyRows(LabelAddAdmin, LabelRemoveAdmin, LabelListAdmins, LabelBack)
}

func contactKeyboard() *messaging.Keyboard {
	return &messaging.Keyboard{
		Reply:   [][]messaging.Button{{{Text: LabelShareContact, RequestContact: true}}},
		OneTime: true,
	}
}
